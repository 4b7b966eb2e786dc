package admin

import (
	"context"

	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
)

// fixStep is one idempotent repair query. Each step is written so re-running
// it against an already-repaired graph changes nothing.
type fixStep struct {
	Name   string
	Cypher string
}

var fixSteps = []fixStep{
	{
		Name: "normalize-notification-properties",
		Cypher: `
			MATCH (n:Notification)
			SET n.title = coalesce(n.title, n.Title, 'Notification'),
			    n.message = coalesce(n.message, n.Message, 'Aucun détail disponible'),
			    n.type = coalesce(n.type, n.Type, 'Admin'),
			    n.id = coalesce(n.id, n.Id, 'notif_' + toString(coalesce(n.createdAt, n.CreatedAt, ''))),
			    n.isRead = coalesce(n.isRead, n.IsRead, false),
			    n.createdAt = coalesce(n.createdAt, n.CreatedAt, toString(datetime()))
			REMOVE n.Id, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt`,
	},
	{
		Name: "reverse-order-by-direction",
		Cypher: `
			MATCH (u:User)-[r:ORDER_BY]->(o:Order)
			CREATE (o)-[:ORDER_BY]->(u)
			DELETE r`,
	},
	{
		Name: "rename-has-item-relationships",
		Cypher: `
			MATCH (o:Order)-[r:HAS_ITEM]->(p:Product)
			CREATE (o)-[:ORDERED_PRODUCT]->(p)
			DELETE r`,
	},
	{
		Name: "link-orders-to-stores",
		Cypher: `
			MATCH (o:Order)
			MATCH (p:Product {id: o.productId})<-[:HAS_PRODUCT]-(s:Store)
			MERGE (s)-[:HAS_ORDER]->(o)`,
	},
	{
		Name: "backfill-admin-order-notifications",
		Cypher: `
			MATCH (o:Order)
			MATCH (p:Product {id: o.productId})<-[:HAS_PRODUCT]-(s:Store)
			WHERE NOT EXISTS {
				MATCH (n:Notification {type: 'Admin'})
				WHERE n.message CONTAINS ('Commande #' + toString(o.id))
			}
			CREATE (n:Notification {
				id: randomUUID(),
				title: 'Commande Existante',
				message: 'Commande #' + toString(o.id) + ' pour ' + s.name + '. Montant : ' + toString(o.totalPrice) + ' MAD.',
				type: 'Admin',
				isRead: false,
				createdAt: o.createdAt
			})`,
	},
	{
		Name: "backfill-prestataire-order-notifications",
		Cypher: `
			MATCH (o:Order)
			MATCH (p:Product {id: o.productId})<-[:HAS_PRODUCT]-(s:Store)
			WHERE NOT EXISTS {
				MATCH (n:Notification {type: 'Prestataire'})
				WHERE n.message CONTAINS ('commande (#' + toString(o.id) + ')')
			}
			CREATE (n:Notification {
				id: randomUUID(),
				title: 'Vente Passée',
				message: 'Notification de migration : commande (#' + toString(o.id) + ') pour le produit ' + p.name,
				type: 'Prestataire',
				prestataireId: s.prestataireId,
				isRead: false,
				createdAt: o.createdAt
			})`,
	},
}

// FixData repairs legacy graph shapes: mixed-case notification properties,
// reversed ORDER_BY edges, the old HAS_ITEM relationship name, missing
// HAS_ORDER links, and orders that predate notification fan-out. All steps
// run in one transaction so a partial repair never commits.
func FixData(ctx context.Context, tx txBeginner) ([]string, error) {
	applied := make([]string, 0, len(fixSteps))
	err := tx.WriteTx(ctx, func(run graph.Runner) error {
		for _, step := range fixSteps {
			if _, err := run.Run(ctx, step.Cypher, nil); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fix step "+step.Name)
			}
			applied = append(applied, step.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}
