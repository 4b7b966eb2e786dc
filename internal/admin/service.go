package admin

import (
	"context"
	"fmt"

	"github.com/SaraKachchaf/flowermarketneo4j/internal/notifications"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/ids"
)

// Service defines the behavior needed by the admin controller.
type Service interface {
	Stats(ctx context.Context) (*StatsResponse, error)
	ListUsers(ctx context.Context) ([]UserSummary, error)
	ListPrestataires(ctx context.Context) ([]UserSummary, error)
	ListPendingPrestataires(ctx context.Context) (*PendingPrestataires, error)
	ListProducts(ctx context.Context) ([]ProductSummary, error)
	ListOrders(ctx context.Context) ([]OrderSummary, error)
	DeleteUser(ctx context.Context, userID string) error
	ApprovePrestataire(ctx context.Context, userID string) error
	RejectPrestataire(ctx context.Context, userID string) error
}

// txBeginner opens one atomic write scope spanning multiple queries.
type txBeginner interface {
	WriteTx(ctx context.Context, fn func(graph.Runner) error) error
}

type service struct {
	db graph.Runner
	tx txBeginner
}

// ServiceParams bundles the dependencies required to build an admin service.
type ServiceParams struct {
	Graph graph.Runner
	Tx    txBeginner
}

// NewService constructs the admin service.
func NewService(params ServiceParams) (Service, error) {
	if params.Graph == nil {
		return nil, fmt.Errorf("graph runner is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction beginner is required")
	}
	return &service{db: params.Graph, tx: params.Tx}, nil
}

// Stats aggregates the dashboard counters in two queries: a role scan for the
// user breakdown and one global count over products and orders.
func (s *service) Stats(ctx context.Context) (*StatsResponse, error) {
	userRows, err := s.db.Run(ctx, `
		MATCH (u:User)-[:HAS_ROLE]->(r:Role)
		RETURN u, r.name AS roleName`, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scanning users for stats")
	}

	stats := &StatsResponse{}
	for _, row := range userRows {
		role, _ := row["roleName"].(string)
		switch role {
		case enums.RoleClient.String():
			stats.TotalClients++
		case enums.RolePrestataire.String():
			stats.TotalPrestataires++
			if user := models.UserFromNode(row["u"]); user != nil && !user.IsApproved {
				stats.PendingPrestataires++
			}
		}
	}

	globalRows, err := s.db.Run(ctx, `
		OPTIONAL MATCH (p:Product)
		OPTIONAL MATCH (o:Order)
		RETURN count(DISTINCT p) AS totalProducts,
		       count(DISTINCT o) AS totalOrders,
		       sum(o.totalPrice) AS totalRevenue,
		       count(DISTINCT CASE WHEN o.status = 'pending' THEN o END) AS pendingOrders`, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating catalog stats")
	}
	if len(globalRows) > 0 {
		row := globalRows[0]
		stats.TotalProducts = graph.CoerceInt(row["totalProducts"])
		stats.TotalOrders = graph.CoerceInt(row["totalOrders"])
		stats.TotalRevenue = graph.CoerceFloat(row["totalRevenue"])
		stats.PendingOrders = graph.CoerceInt(row["pendingOrders"])
	}
	return stats, nil
}

// ListUsers returns every user with their role and, for vendors, the store.
func (s *service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User)-[:HAS_ROLE]->(r:Role)
		OPTIONAL MATCH (st:Store {prestataireId: u.id})
		RETURN u, r.name AS role, st.name AS storeName`, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing users")
	}
	return collectUserSummaries(rows, ""), nil
}

// ListPrestataires returns all vendor accounts.
func (s *service) ListPrestataires(ctx context.Context) ([]UserSummary, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User)-[:HAS_ROLE]->(r:Role {normalizedName: 'PRESTATAIRE'})
		OPTIONAL MATCH (st:Store {prestataireId: u.id})
		RETURN u, st.name AS storeName`, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing prestataires")
	}
	return collectUserSummaries(rows, enums.RolePrestataire.String()), nil
}

// ListPendingPrestataires narrows the vendor list to the unapproved ones.
func (s *service) ListPendingPrestataires(ctx context.Context) (*PendingPrestataires, error) {
	all, err := s.ListPrestataires(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]UserSummary, 0)
	for _, summary := range all {
		if !summary.IsApproved {
			pending = append(pending, summary)
		}
	}
	return &PendingPrestataires{
		Count:             len(pending),
		TotalPrestataires: len(all),
		Prestataires:      pending,
	}, nil
}

// ListProducts returns the whole catalog with store names.
func (s *service) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (p:Product)<-[:HAS_PRODUCT]-(st:Store)
		RETURN p, st.name AS storeName`, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	out := make([]ProductSummary, 0, len(rows))
	for _, row := range rows {
		product := models.ProductFromNode(row["p"])
		if product == nil {
			continue
		}
		storeName, _ := row["storeName"].(string)
		if storeName == "" {
			storeName = "Boutique inconnue"
		}
		category := product.Category
		if category == "" {
			category = "Non catégorisé"
		}
		out = append(out, ProductSummary{
			ID:              product.ID,
			Name:            product.Name,
			Price:           product.Price,
			ImageURL:        product.ImageURL,
			StoreName:       storeName,
			Category:        category,
			Stock:           product.Stock,
			PrestataireName: "Inconnu",
			CreatedAt:       product.CreatedAt,
		})
	}
	return out, nil
}

// ListOrders joins every order with its buyer and product.
func (s *service) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (o:Order)-[:ORDER_BY]->(u:User)
		MATCH (o)-[:ORDERED_PRODUCT]->(p:Product)
		RETURN o, u, p`, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}

	out := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		order := models.OrderFromNode(row["o"])
		user := models.UserFromNode(row["u"])
		product := models.ProductFromNode(row["p"])
		if order == nil || user == nil || product == nil {
			continue
		}
		out = append(out, OrderSummary{
			ID:            order.ID,
			ProductName:   product.Name,
			Quantity:      order.Quantity,
			TotalPrice:    order.TotalPrice,
			Status:        order.Status.String(),
			CustomerName:  user.FullName,
			CustomerEmail: user.Email,
			OrderDate:     order.CreatedAt,
		})
	}
	return out, nil
}

// DeleteUser removes the user and every relationship it carries.
func (s *service) DeleteUser(ctx context.Context, userID string) error {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})
		WITH u, u.id AS deletedId
		DETACH DELETE u
		RETURN deletedId`, map[string]any{"userId": userID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting user")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Utilisateur non trouvé")
	}
	return nil
}

// ApprovePrestataire flips the approval flag, lazily creates the vendor's
// store, and notifies the vendor, all in one transaction.
func (s *service) ApprovePrestataire(ctx context.Context, userID string) error {
	storeID, err := ids.NewNumericID()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating store id")
	}

	return s.tx.WriteTx(ctx, func(run graph.Runner) error {
		rows, err := run.Run(ctx, `
			MATCH (u:User {id: $userId})-[:HAS_ROLE]->(:Role {normalizedName: 'PRESTATAIRE'})
			SET u.isApproved = true
			RETURN u.fullName AS fullName`, map[string]any{"userId": userID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approving prestataire")
		}
		if len(rows) == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Prestataire non trouvé")
		}
		fullName, _ := rows[0]["fullName"].(string)

		_, err = run.Run(ctx, `
			MERGE (st:Store {prestataireId: $userId})
			ON CREATE SET st.id = $id,
			              st.name = $name,
			              st.description = $description,
			              st.address = $address
			RETURN st`, map[string]any{
			"userId":      userID,
			"id":          storeID,
			"name":        fmt.Sprintf("Boutique de %s", fullName),
			"description": "Description de la boutique",
			"address":     "Adresse à définir",
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensuring vendor store")
		}

		return notifications.NotifyPrestataire(ctx, run, userID,
			"Compte Approuvé",
			"Votre compte prestataire a été approuvé. Vous pouvez maintenant vous connecter.")
	})
}

// RejectPrestataire deletes the unwanted vendor account outright.
func (s *service) RejectPrestataire(ctx context.Context, userID string) error {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})-[:HAS_ROLE]->(:Role {normalizedName: 'PRESTATAIRE'})
		WITH u, u.id AS deletedId
		DETACH DELETE u
		RETURN deletedId`, map[string]any{"userId": userID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rejecting prestataire")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Prestataire non trouvé")
	}
	return nil
}

func collectUserSummaries(rows []graph.Row, forcedRole string) []UserSummary {
	out := make([]UserSummary, 0, len(rows))
	for _, row := range rows {
		user := models.UserFromNode(row["u"])
		if user == nil {
			continue
		}
		role := forcedRole
		if role == "" {
			role, _ = row["role"].(string)
		}
		storeName, _ := row["storeName"].(string)
		out = append(out, UserSummary{
			ID:         user.ID,
			FullName:   user.FullName,
			Email:      user.Email,
			Role:       role,
			IsApproved: user.IsApproved,
			CreatedAt:  user.CreatedAt,
			StoreName:  storeName,
		})
	}
	return out
}
