package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/internal/notifications"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/ids"
)

// Service defines the behavior needed by the public marketplace controller.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductListing, error)
	ListPromoted(ctx context.Context) ([]PromotedListing, error)
	PlaceOrder(ctx context.Context, userID string, req CreateOrderRequest) (*OrderConfirmation, error)
	MyOrders(ctx context.Context, userID string) ([]MyOrder, error)
	PayOrder(ctx context.Context, userID string, orderID int64) (*PayResponse, error)
	DeleteOrder(ctx context.Context, userID string, orderID int64) error
	TrackVisit(ctx context.Context, visitorType string) error
}

type txBeginner interface {
	WriteTx(ctx context.Context, fn func(graph.Runner) error) error
}

type service struct {
	db  graph.Runner
	tx  txBeginner
	now func() time.Time
}

// ServiceParams bundles the dependencies required to build the marketplace
// service.
type ServiceParams struct {
	Graph graph.Runner
	Tx    txBeginner
	Now   func() time.Time
}

// NewService constructs the marketplace service.
func NewService(params ServiceParams) (Service, error) {
	if params.Graph == nil {
		return nil, fmt.Errorf("graph runner is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction beginner is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{db: params.Graph, tx: params.Tx, now: params.Now}, nil
}

// ListProducts returns every active product with its store name and, when a
// promotion is still running, the discounted price.
func (s *service) ListProducts(ctx context.Context) ([]ProductListing, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (p:Product {isActive: true})<-[:HAS_PRODUCT]-(st:Store)
		OPTIONAL MATCH (p)-[:HAS_PROMOTION]->(promo:Promotion)
		WHERE promo.endDate IS NOT NULL AND datetime(promo.endDate) > datetime()
		RETURN p, st.name AS storeName, promo
		ORDER BY p.createdAt DESC`, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing marketplace products")
	}

	listings := make([]ProductListing, 0, len(rows))
	for _, row := range rows {
		product := models.ProductFromNode(row["p"])
		if product == nil {
			continue
		}
		promo := models.PromotionFromNode(row["promo"])
		storeName, _ := row["storeName"].(string)
		if storeName == "" {
			storeName = "Boutique Inconnue"
		}

		var discount float64
		if promo != nil {
			discount = promo.DiscountPercent
		}
		listings = append(listings, ProductListing{
			ID:          product.ID,
			Name:        product.Name,
			Price:       product.Price,
			Category:    product.Category,
			ImageURL:    product.ImageURL,
			Description: product.Description,
			Stock:       product.Stock,
			StoreName:   storeName,
			Discount:    discount,
			FinalPrice:  promo.FinalPrice(product.Price),
		})
	}
	return listings, nil
}

// ListPromoted returns only the products carrying a live promotion.
func (s *service) ListPromoted(ctx context.Context) ([]PromotedListing, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (p:Product {isActive: true})-[:HAS_PROMOTION]->(promo:Promotion)
		WHERE datetime(promo.endDate) > datetime()
		MATCH (p)<-[:HAS_PRODUCT]-(st:Store)
		RETURN p, promo, st.name AS storeName`, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing promoted products")
	}

	listings := make([]PromotedListing, 0, len(rows))
	for _, row := range rows {
		product := models.ProductFromNode(row["p"])
		promo := models.PromotionFromNode(row["promo"])
		if product == nil || promo == nil {
			continue
		}
		listings = append(listings, PromotedListing{
			ID:             product.ID,
			Name:           product.Name,
			OriginalPrice:  product.Price,
			ImageURL:       product.ImageURL,
			Category:       product.Category,
			PromotionTitle: promo.Title,
			Discount:       promo.DiscountPercent,
			FinalPrice:     promo.FinalPrice(product.Price),
			EndDate:        promo.EndDate,
		})
	}
	return listings, nil
}

// PlaceOrder validates the buyer, product state and stock, then creates the
// order, decrements stock and fans out both notifications inside one
// transaction. A concurrent order that would oversell rolls everything back.
func (s *service) PlaceOrder(ctx context.Context, userID string, req CreateOrderRequest) (*OrderConfirmation, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "La quantité doit être supérieure à 0")
	}

	orderID, err := ids.NewNumericID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating order id")
	}

	var confirmation *OrderConfirmation
	err = s.tx.WriteTx(ctx, func(run graph.Runner) error {
		userRows, err := run.Run(ctx, `
			MATCH (u:User {id: $userId})
			RETURN u`, map[string]any{"userId": userID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking buyer")
		}
		if len(userRows) == 0 {
			return pkgerrors.New(pkgerrors.CodeUnauthorized,
				"Utilisateur introuvable dans la base. Veuillez vous reconnecter.")
		}

		productRows, err := run.Run(ctx, `
			MATCH (p:Product {id: $productId})<-[:HAS_PRODUCT]-(st:Store)
			RETURN p, st`, map[string]any{"productId": req.ProductID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking product")
		}
		if len(productRows) == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Produit introuvable")
		}

		product := models.ProductFromNode(productRows[0]["p"])
		store := models.StoreFromNode(productRows[0]["st"])
		if product == nil || store == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "product row unreadable")
		}
		if !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "Ce produit n'est plus disponible")
		}
		if product.Stock < req.Quantity {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("Stock insuffisant. Reste : %d", product.Stock))
		}

		totalPrice := product.Price * float64(req.Quantity)

		// The stock guard repeats inside the write so a concurrent decrement
		// between the check and this query aborts instead of overselling.
		orderRows, err := run.Run(ctx, `
			MATCH (u:User {id: $userId})
			MATCH (p:Product {id: $productId})
			WHERE p.stock >= $quantity
			MATCH (st:Store {id: $storeId})
			CREATE (o:Order {
				id: $id,
				productId: $productId,
				storeId: $storeId,
				userId: $userId,
				quantity: $quantity,
				totalPrice: $totalPrice,
				createdAt: $createdAt,
				status: 'pending'
			})
			CREATE (o)-[:ORDER_BY]->(u)
			CREATE (o)-[:ORDERED_PRODUCT]->(p)
			CREATE (st)-[:HAS_ORDER]->(o)
			SET p.stock = p.stock - $quantity
			RETURN o.id AS orderId`, map[string]any{
			"userId":     userID,
			"productId":  req.ProductID,
			"storeId":    store.ID,
			"id":         orderID,
			"quantity":   req.Quantity,
			"totalPrice": totalPrice,
			"createdAt":  graph.FormatTime(s.now().UTC()),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}
		if len(orderRows) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "Stock insuffisant")
		}

		adminMessage := fmt.Sprintf("Commande #%d reçue pour %s. Montant : %g MAD.", orderID, store.Name, totalPrice)
		if err := notifications.NotifyAdmin(ctx, run, "Nouvelle Commande", adminMessage); err != nil {
			return err
		}

		vendorMessage := fmt.Sprintf("Vous avez reçu une nouvelle commande (#%d) pour le produit '%s'.", orderID, product.Name)
		if err := notifications.NotifyPrestataire(ctx, run, store.PrestataireID, "Vente Réalisée", vendorMessage); err != nil {
			return err
		}

		confirmation = &OrderConfirmation{Message: "Commande créée avec succès", OrderID: orderID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmation, nil
}

// MyOrders returns the buyer's order history, newest first.
func (s *service) MyOrders(ctx context.Context, userID string) ([]MyOrder, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (o:Order)-[:ORDER_BY]->(u:User {id: $userId})
		MATCH (o)-[:ORDERED_PRODUCT]->(p:Product)<-[:HAS_PRODUCT]-(st:Store)
		RETURN o, p, st.name AS storeName
		ORDER BY o.createdAt DESC`, map[string]any{"userId": userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing buyer orders")
	}

	orders := make([]MyOrder, 0, len(rows))
	for _, row := range rows {
		order := models.OrderFromNode(row["o"])
		product := models.ProductFromNode(row["p"])
		if order == nil || product == nil {
			continue
		}
		storeName, _ := row["storeName"].(string)
		orders = append(orders, MyOrder{
			ID:           order.ID,
			ProductID:    order.ProductID,
			ProductName:  product.Name,
			ProductImage: product.ImageURL,
			StoreName:    storeName,
			Quantity:     order.Quantity,
			TotalPrice:   order.TotalPrice,
			Status:       order.Status.String(),
			CreatedAt:    order.CreatedAt,
		})
	}
	return orders, nil
}

// PayOrder moves a pending or confirmed order to processing. The buyer match
// keeps one user from paying another's order.
func (s *service) PayOrder(ctx context.Context, userID string, orderID int64) (*PayResponse, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (o:Order {id: $id})-[:ORDER_BY]->(u:User {id: $userId})
		WHERE o.status IN ['confirmed', 'pending']
		SET o.status = 'processing'
		RETURN o.status AS status`, map[string]any{"userId": userID, "id": orderID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "paying order")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Commande introuvable ou non payable.")
	}
	status, _ := rows[0]["status"].(string)
	return &PayResponse{Message: "Paiement réussi", Status: status}, nil
}

// DeleteOrder removes a buyer's own order while it is still pending or
// confirmed. Later states are immutable from the buyer side.
func (s *service) DeleteOrder(ctx context.Context, userID string, orderID int64) error {
	rows, err := s.db.Run(ctx, `
		MATCH (o:Order {id: $id})-[:ORDER_BY]->(u:User {id: $userId})
		RETURN o.status AS status`, map[string]any{"userId": userID, "id": orderID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking order")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Commande introuvable.")
	}

	status, _ := rows[0]["status"].(string)
	if !enums.OrderStatus(status).Deletable() {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			"Impossible de supprimer une commande en cours de traitement ou déjà payée.")
	}

	_, err = s.db.Run(ctx, `
		MATCH (o:Order {id: $id})-[:ORDER_BY]->(u:User {id: $userId})
		DETACH DELETE o`, map[string]any{"userId": userID, "id": orderID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting order")
	}
	return nil
}

// TrackVisit records an anonymous platform visit as an admin notification.
// Failures are swallowed: losing a visit ping must never surface to visitors.
func (s *service) TrackVisit(ctx context.Context, visitorType string) error {
	title := "Visite client"
	if visitorType == enums.RolePrestataire.String() {
		title = "Visite prestataire"
	}
	_ = notifications.NotifyAdmin(ctx, s.db, title, "Un utilisateur a consulté la plateforme")
	return nil
}
