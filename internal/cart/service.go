package cart

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/ids"
	"github.com/google/uuid"
)

// Service defines the behavior needed by the cart controller. The basket
// lives in the graph as (:User)-[:HAS_CART_ITEM]->(:CartItem)-[:CART_PRODUCT]->(:Product)
// so checkout can convert lines to orders in the same store.
type Service interface {
	Get(ctx context.Context, userID string) (*View, error)
	Add(ctx context.Context, userID string, req AddToCartRequest) error
	UpdateQuantity(ctx context.Context, userID string, productID, quantity int64) error
	Remove(ctx context.Context, userID string, productID int64) error
	Clear(ctx context.Context, userID string) error
	Checkout(ctx context.Context, userID string) (*CheckoutResponse, error)
}

type txBeginner interface {
	WriteTx(ctx context.Context, fn func(graph.Runner) error) error
}

type service struct {
	db  graph.Runner
	tx  txBeginner
	now func() time.Time
}

// ServiceParams bundles the dependencies required to build the cart service.
type ServiceParams struct {
	Graph graph.Runner
	Tx    txBeginner
	Now   func() time.Time
}

// NewService constructs the cart service.
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

// Get returns the basket with product and store display fields plus totals.
func (s *service) Get(ctx context.Context, userID string) (*View, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})-[:HAS_CART_ITEM]->(item:CartItem)-[:CART_PRODUCT]->(p:Product)
		OPTIONAL MATCH (p)<-[:HAS_PRODUCT]-(st:Store)
		OPTIONAL MATCH (owner:User {id: st.prestataireId})
		RETURN item, p, st, owner.email AS storeEmail
		ORDER BY item.addedAt`, map[string]any{"userId": userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	view := &View{Items: []ItemView{}}
	for _, row := range rows {
		item := models.CartItemFromNode(row["item"])
		product := models.ProductFromNode(row["p"])
		if item == nil || product == nil {
			continue
		}
		line := ItemView{
			ID:           item.ID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			ProductImage: product.ImageURL,
			Quantity:     item.Quantity,
			TotalPrice:   product.Price * float64(item.Quantity),
			AddedAt:      item.AddedAt,
		}
		if store := models.StoreFromNode(row["st"]); store != nil {
			line.StoreID = store.ID
			line.StoreName = store.Name
			line.StoreAddress = store.Address
		}
		if email, ok := row["storeEmail"].(string); ok {
			line.StoreEmail = email
		}
		view.Items = append(view.Items, line)
		view.TotalItems += line.Quantity
		view.TotalPrice += line.TotalPrice
	}
	return view, nil
}

// Add puts the product in the basket, merging quantities when the line
// already exists.
func (s *service) Add(ctx context.Context, userID string, req AddToCartRequest) error {
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	productRows, err := s.db.Run(ctx, `
		MATCH (p:Product {id: $productId})
		RETURN p`, map[string]any{"productId": req.ProductID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking product")
	}
	if len(productRows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}

	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})
		MATCH (p:Product {id: $productId})
		MERGE (u)-[:HAS_CART_ITEM]->(item:CartItem {userId: $userId, productId: $productId})
		ON CREATE SET item.id = $id,
		              item.quantity = $quantity,
		              item.addedAt = $addedAt
		ON MATCH SET item.quantity = item.quantity + $quantity
		MERGE (item)-[:CART_PRODUCT]->(p)
		RETURN item.id AS id`, map[string]any{
		"userId":    userID,
		"productId": req.ProductID,
		"id":        uuid.NewString(),
		"quantity":  quantity,
		"addedAt":   graph.FormatTime(s.now().UTC()),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adding cart item")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Utilisateur introuvable")
	}
	return nil
}

// UpdateQuantity sets the absolute line quantity; zero or less deletes the
// line, mirroring the storefront's stepper behavior.
func (s *service) UpdateQuantity(ctx context.Context, userID string, productID, quantity int64) error {
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}

	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})-[:HAS_CART_ITEM]->(item:CartItem {productId: $productId})
		SET item.quantity = $quantity
		RETURN item.id AS id`, map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  quantity,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating cart quantity")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Item not found in cart")
	}
	return nil
}

// Remove deletes one line from the basket.
func (s *service) Remove(ctx context.Context, userID string, productID int64) error {
	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})-[:HAS_CART_ITEM]->(item:CartItem {productId: $productId})
		WITH item, item.id AS deletedId
		DETACH DELETE item
		RETURN deletedId`, map[string]any{
		"userId":    userID,
		"productId": productID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "removing cart item")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Item not found in cart")
	}
	return nil
}

// Clear drops every line. Clearing an empty basket is a success.
func (s *service) Clear(ctx context.Context, userID string) error {
	_, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})-[:HAS_CART_ITEM]->(item:CartItem)
		DETACH DELETE item`, map[string]any{"userId": userID})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}

// Checkout converts every basket line into a pending order in one
// transaction: order creation, stock decrement and basket cleanup all commit
// together or not at all. A line whose product lacks stock aborts the whole
// checkout so the buyer never ends up with a partial order set.
func (s *service) Checkout(ctx context.Context, userID string) (*CheckoutResponse, error) {
	var response *CheckoutResponse
	err := s.tx.WriteTx(ctx, func(run graph.Runner) error {
		rows, err := run.Run(ctx, `
			MATCH (u:User {id: $userId})-[:HAS_CART_ITEM]->(item:CartItem)-[:CART_PRODUCT]->(p:Product)
			OPTIONAL MATCH (p)<-[:HAS_PRODUCT]-(st:Store)
			RETURN item, p, st.id AS storeId`, map[string]any{"userId": userID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart for checkout")
		}
		if len(rows) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "Cart is empty")
		}

		orderIDs := make([]int64, 0, len(rows))
		for _, row := range rows {
			item := models.CartItemFromNode(row["item"])
			product := models.ProductFromNode(row["p"])
			if item == nil || product == nil {
				continue
			}
			if product.Stock < item.Quantity {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("Stock insuffisant pour %s. Reste : %d", product.Name, product.Stock))
			}

			orderID, err := ids.NewNumericID()
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating order id")
			}

			created, err := run.Run(ctx, `
				MATCH (u:User {id: $userId})
				MATCH (p:Product {id: $productId})
				WHERE p.stock >= $quantity
				OPTIONAL MATCH (p)<-[:HAS_PRODUCT]-(st:Store)
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
				SET p.stock = p.stock - $quantity
				WITH o, st
				FOREACH (_ IN CASE WHEN st IS NULL THEN [] ELSE [1] END |
					MERGE (st)-[:HAS_ORDER]->(o))
				RETURN o.id AS orderId`, map[string]any{
				"userId":     userID,
				"productId":  item.ProductID,
				"storeId":    graph.CoerceInt(row["storeId"]),
				"id":         orderID,
				"quantity":   item.Quantity,
				"totalPrice": product.Price * float64(item.Quantity),
				"createdAt":  graph.FormatTime(s.now().UTC()),
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating checkout order")
			}
			if len(created) == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("Stock insuffisant pour %s", product.Name))
			}
			orderIDs = append(orderIDs, orderID)
		}

		_, err = run.Run(ctx, `
			MATCH (u:User {id: $userId})-[:HAS_CART_ITEM]->(item:CartItem)
			DETACH DELETE item`, map[string]any{"userId": userID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart after checkout")
		}

		response = &CheckoutResponse{OrderCount: len(orderIDs), OrderIDs: orderIDs}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
