package prestataire

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/ids"
	"github.com/google/uuid"
)

// Service defines the behavior needed by the prestataire controllers. Every
// operation is scoped to the authenticated vendor: mutations only match nodes
// reachable from the vendor's own store, so one vendor can never touch
// another's catalog.
type Service interface {
	GetStore(ctx context.Context, prestataireID string) (*StoreWithProducts, error)
	UpsertStore(ctx context.Context, prestataireID string, req UpsertStoreRequest) (*models.Store, error)
	ListProducts(ctx context.Context, prestataireID string) ([]*models.Product, error)
	AddProduct(ctx context.Context, prestataireID string, req CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, prestataireID string, productID int64, req UpdateProductRequest) error
	DeleteProduct(ctx context.Context, prestataireID string, productID int64) error
	ListOrders(ctx context.Context, prestataireID string) ([]OrderView, error)
	UpdateOrderStatus(ctx context.Context, prestataireID string, orderID int64, status string) error
	Stats(ctx context.Context, prestataireID string) (*StatsResponse, error)
	ListReviews(ctx context.Context, prestataireID string) ([]ReviewView, error)
	AddReview(ctx context.Context, userID string, req CreateReviewRequest) (*models.Review, error)
	UpdateReview(ctx context.Context, userID string, reviewID int64, req UpdateReviewRequest) error
	DeleteReview(ctx context.Context, userID string, reviewID int64) error
	ListPromotions(ctx context.Context, prestataireID string) ([]PromotionView, error)
	AddPromotion(ctx context.Context, prestataireID string, req CreatePromotionRequest) (*models.Promotion, error)
	UpdatePromotion(ctx context.Context, prestataireID string, promotionID int64, req UpdatePromotionRequest) error
	DeletePromotion(ctx context.Context, prestataireID string, promotionID int64) error
}

type service struct {
	db  graph.Runner
	now func() time.Time
}

// ServiceParams bundles the dependencies required to build the vendor service.
type ServiceParams struct {
	Graph graph.Runner
	Now   func() time.Time
}

// NewService constructs the vendor service.
func NewService(params ServiceParams) (Service, error) {
	if params.Graph == nil {
		return nil, fmt.Errorf("graph runner is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{db: params.Graph, now: params.Now}, nil
}

// GetStore loads the vendor's store with its products attached.
func (s *service) GetStore(ctx context.Context, prestataireID string) (*StoreWithProducts, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})
		OPTIONAL MATCH (st)-[:HAS_PRODUCT]->(p:Product)
		RETURN st, collect(p) AS products`, map[string]any{"prestataireId": prestataireID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading vendor store")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Boutique introuvable")
	}

	store := models.StoreFromNode(rows[0]["st"])
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "store node unreadable")
	}

	result := &StoreWithProducts{Store: store, Products: []*models.Product{}}
	if nodes, ok := rows[0]["products"].([]any); ok {
		for _, node := range nodes {
			if product := models.ProductFromNode(node); product != nil {
				result.Products = append(result.Products, product)
			}
		}
	}
	return result, nil
}

// UpsertStore creates the store on first call and renames it afterwards. The
// numeric id is only assigned on creation.
func (s *service) UpsertStore(ctx context.Context, prestataireID string, req UpsertStoreRequest) (*models.Store, error) {
	storeID, err := ids.NewNumericID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating store id")
	}

	rows, err := s.db.Run(ctx, `
		MERGE (st:Store {prestataireId: $prestataireId})
		SET st.name = $name,
		    st.description = $description,
		    st.address = $address,
		    st.id = coalesce(st.id, $id)
		RETURN st`, map[string]any{
		"prestataireId": prestataireID,
		"name":          req.Name,
		"description":   req.Description,
		"address":       req.Address,
		"id":            storeID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upserting vendor store")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "store upsert returned no node")
	}
	return models.StoreFromNode(rows[0]["st"]), nil
}

// ListProducts returns the vendor's full catalog, active or not.
func (s *service) ListProducts(ctx context.Context, prestataireID string) ([]*models.Product, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_PRODUCT]->(p:Product)
		RETURN p`, map[string]any{"prestataireId": prestataireID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing vendor products")
	}
	products := make([]*models.Product, 0, len(rows))
	for _, row := range rows {
		if product := models.ProductFromNode(row["p"]); product != nil {
			products = append(products, product)
		}
	}
	return products, nil
}

// AddProduct creates the product under the vendor's store, lazily creating a
// default store for vendors approved before the storefront flow existed.
func (s *service) AddProduct(ctx context.Context, prestataireID string, req CreateProductRequest) (*models.Product, error) {
	store, err := s.ensureStore(ctx, prestataireID)
	if err != nil {
		return nil, err
	}

	productID, err := ids.NewNumericID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating product id")
	}

	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})
		CREATE (p:Product {
			id: $id,
			name: $name,
			price: $price,
			imageUrl: $imageUrl,
			storeId: $storeId,
			createdAt: $createdAt,
			isActive: true,
			stock: $stock,
			category: $category,
			description: $description
		})
		CREATE (st)-[:HAS_PRODUCT]->(p)
		RETURN p`, map[string]any{
		"prestataireId": prestataireID,
		"id":            productID,
		"name":          req.Name,
		"price":         req.Price,
		"imageUrl":      req.ImageURL,
		"storeId":       store.ID,
		"createdAt":     graph.FormatTime(s.now().UTC()),
		"stock":         req.Stock,
		"category":      req.Category,
		"description":   req.Description,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product create returned no node")
	}
	return models.ProductFromNode(rows[0]["p"]), nil
}

// UpdateProduct overwrites the product fields. The store match doubles as the
// ownership guard: a product outside the vendor's store is a 404.
func (s *service) UpdateProduct(ctx context.Context, prestataireID string, productID int64, req UpdateProductRequest) error {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_PRODUCT]->(p:Product {id: $id})
		SET p.name = $name,
		    p.price = $price,
		    p.imageUrl = $imageUrl,
		    p.stock = $stock,
		    p.category = $category,
		    p.description = $description,
		    p.isActive = $isActive
		RETURN p.id AS id`, map[string]any{
		"prestataireId": prestataireID,
		"id":            productID,
		"name":          req.Name,
		"price":         req.Price,
		"imageUrl":      req.ImageURL,
		"stock":         req.Stock,
		"category":      req.Category,
		"description":   req.Description,
		"isActive":      req.IsActive,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Produit introuvable")
	}
	return nil
}

// DeleteProduct removes an owned product with its relationships.
func (s *service) DeleteProduct(ctx context.Context, prestataireID string, productID int64) error {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_PRODUCT]->(p:Product {id: $id})
		WITH p, p.id AS deletedId
		DETACH DELETE p
		RETURN deletedId`, map[string]any{
		"prestataireId": prestataireID,
		"id":            productID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Produit introuvable")
	}
	return nil
}

// ListOrders returns the store's orders newest first, joined with buyer and
// product display fields.
func (s *service) ListOrders(ctx context.Context, prestataireID string) ([]OrderView, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_ORDER]->(o:Order)
		OPTIONAL MATCH (o)-[:ORDERED_PRODUCT]->(p:Product)
		OPTIONAL MATCH (o)-[:ORDER_BY]->(u:User)
		RETURN o, p, u
		ORDER BY o.createdAt DESC`, map[string]any{"prestataireId": prestataireID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing vendor orders")
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		order := models.OrderFromNode(row["o"])
		if order == nil {
			continue
		}
		view := OrderView{
			ID:            order.ID,
			CreatedAt:     order.CreatedAt,
			Status:        order.Status.String(),
			TotalAmount:   order.TotalPrice,
			Quantity:      order.Quantity,
			CustomerName:  "Client inconnu",
			CustomerEmail: "Email inconnu",
			ProductName:   "Produit supprimé",
		}
		if user := models.UserFromNode(row["u"]); user != nil {
			view.CustomerName = user.FullName
			view.CustomerEmail = user.Email
		}
		if product := models.ProductFromNode(row["p"]); product != nil {
			view.ProductName = product.Name
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateOrderStatus moves an owned order to a new lifecycle state.
func (s *service) UpdateOrderStatus(ctx context.Context, prestataireID string, orderID int64, status string) error {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "statut de commande invalide")
	}

	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_ORDER]->(o:Order {id: $orderId})
		SET o.status = $status
		RETURN o.id AS id`, map[string]any{
		"prestataireId": prestataireID,
		"orderId":       orderID,
		"status":        parsed.String(),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating order status")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Commande introuvable ou non détenue")
	}
	return nil
}

// Stats aggregates the vendor dashboard in one query.
func (s *service) Stats(ctx context.Context, prestataireID string) (*StatsResponse, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})
		OPTIONAL MATCH (st)-[:HAS_PRODUCT]->(p:Product)
		OPTIONAL MATCH (st)-[:HAS_ORDER]->(o:Order)
		OPTIONAL MATCH (p)-[:HAS_REVIEW]->(r:Review)
		RETURN count(DISTINCT p) AS totalProducts,
		       count(DISTINCT o) AS totalOrders,
		       count(DISTINCT CASE WHEN o.status = 'pending' THEN o END) AS pendingOrders,
		       sum(o.totalPrice) AS totalRevenue,
		       count(DISTINCT r) AS totalReviews,
		       avg(r.rating) AS averageRating`, map[string]any{"prestataireId": prestataireID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating vendor stats")
	}
	if len(rows) == 0 {
		return &StatsResponse{}, nil
	}

	row := rows[0]
	return &StatsResponse{
		TotalProducts: graph.CoerceInt(row["totalProducts"]),
		TotalOrders:   graph.CoerceInt(row["totalOrders"]),
		PendingOrders: graph.CoerceInt(row["pendingOrders"]),
		TotalReviews:  graph.CoerceInt(row["totalReviews"]),
		AverageRating: graph.CoerceFloat(row["averageRating"]),
		TotalRevenue:  graph.CoerceFloat(row["totalRevenue"]),
	}, nil
}

// ListReviews returns reviews of the vendor's products with their authors.
func (s *service) ListReviews(ctx context.Context, prestataireID string) ([]ReviewView, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_PRODUCT]->(p:Product)-[:HAS_REVIEW]->(r:Review)
		OPTIONAL MATCH (u:User)-[:WROTE_REVIEW]->(r)
		RETURN r, p, u`, map[string]any{"prestataireId": prestataireID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing vendor reviews")
	}

	views := make([]ReviewView, 0, len(rows))
	for _, row := range rows {
		review := models.ReviewFromNode(row["r"])
		if review == nil {
			continue
		}
		view := ReviewView{Review: review, ProductName: "Produit supprimé", AuthorName: "Client inconnu"}
		if product := models.ProductFromNode(row["p"]); product != nil {
			view.ProductName = product.Name
		}
		if user := models.UserFromNode(row["u"]); user != nil {
			view.AuthorName = user.FullName
		}
		views = append(views, view)
	}
	return views, nil
}

// AddReview posts the caller's review on an existing product, linking both the
// author and the product in one statement.
func (s *service) AddReview(ctx context.Context, userID string, req CreateReviewRequest) (*models.Review, error) {
	reviewID, err := ids.NewNumericID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating review id")
	}

	rows, err := s.db.Run(ctx, `
		MATCH (u:User {id: $userId})
		MATCH (p:Product {id: $productId})
		CREATE (r:Review {
			id: $id,
			userId: $userId,
			productId: $productId,
			rating: $rating,
			comment: $comment,
			createdAt: $createdAt
		})
		CREATE (u)-[:WROTE_REVIEW]->(r)
		CREATE (p)-[:HAS_REVIEW]->(r)
		RETURN r`, map[string]any{
		"userId":    userID,
		"productId": req.ProductID,
		"id":        reviewID,
		"rating":    req.Rating,
		"comment":   req.Comment,
		"createdAt": graph.FormatTime(s.now().UTC()),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating review")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Produit introuvable")
	}
	return models.ReviewFromNode(rows[0]["r"]), nil
}

// UpdateReview rewrites a review's rating and comment. Only the author may
// touch it: the author match is part of the query, so a foreign review id is
// a 404.
func (s *service) UpdateReview(ctx context.Context, userID string, reviewID int64, req UpdateReviewRequest) error {
	rows, err := s.db.Run(ctx, `
		MATCH (r:Review {id: $id})
		WHERE coalesce(r.userId, r.UserId) = $userId
		SET r.rating = $rating,
		    r.comment = $comment
		RETURN r.id AS id`, map[string]any{
		"id":      reviewID,
		"userId":  userID,
		"rating":  req.Rating,
		"comment": req.Comment,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating review")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Avis introuvable")
	}
	return nil
}

// DeleteReview removes one of the caller's own reviews with its edges.
func (s *service) DeleteReview(ctx context.Context, userID string, reviewID int64) error {
	rows, err := s.db.Run(ctx, `
		MATCH (r:Review {id: $id})
		WHERE coalesce(r.userId, r.UserId) = $userId
		WITH r, r.id AS deletedId
		DETACH DELETE r
		RETURN deletedId`, map[string]any{
		"id":     reviewID,
		"userId": userID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting review")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Avis introuvable")
	}
	return nil
}

// ListPromotions returns the vendor's promotions, latest ending first.
func (s *service) ListPromotions(ctx context.Context, prestataireID string) ([]PromotionView, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_PRODUCT]->(p:Product)-[:HAS_PROMOTION]->(promo:Promotion)
		RETURN promo, p
		ORDER BY promo.endDate DESC`, map[string]any{"prestataireId": prestataireID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing vendor promotions")
	}

	views := make([]PromotionView, 0, len(rows))
	for _, row := range rows {
		promo := models.PromotionFromNode(row["promo"])
		if promo == nil {
			continue
		}
		view := PromotionView{Promotion: promo, ProductName: "Produit supprimé"}
		if product := models.ProductFromNode(row["p"]); product != nil {
			view.ProductName = product.Name
		}
		views = append(views, view)
	}
	return views, nil
}

// AddPromotion creates a promotion on an owned product. The ownership match
// and the create run as one query, so a foreign product id yields a 404 and
// nothing is written.
func (s *service) AddPromotion(ctx context.Context, prestataireID string, req CreatePromotionRequest) (*models.Promotion, error) {
	promoID, err := ids.NewNumericID()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating promotion id")
	}

	code := req.Code
	if code == "" {
		code = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	}

	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_PRODUCT]->(p:Product {id: $productId})
		CREATE (promo:Promotion {
			id: $id,
			productId: $productId,
			title: $title,
			description: $description,
			discountPercent: $discountPercent,
			startDate: $startDate,
			endDate: $endDate,
			code: $code,
			usageLimit: $usageLimit,
			usageCount: 0
		})
		CREATE (p)-[:HAS_PROMOTION]->(promo)
		RETURN promo`, map[string]any{
		"prestataireId":   prestataireID,
		"productId":       req.ProductID,
		"id":              promoID,
		"title":           req.Title,
		"description":     req.Description,
		"discountPercent": req.DiscountPercent,
		"startDate":       graph.FormatTime(req.StartDate),
		"endDate":         graph.FormatTime(req.EndDate),
		"code":            code,
		"usageLimit":      req.UsageLimit,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating promotion")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Produit introuvable")
	}
	return models.PromotionFromNode(rows[0]["promo"]), nil
}

// UpdatePromotion rewrites an owned promotion's discount window.
func (s *service) UpdatePromotion(ctx context.Context, prestataireID string, promotionID int64, req UpdatePromotionRequest) error {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_PRODUCT]->(:Product)-[:HAS_PROMOTION]->(promo:Promotion {id: $id})
		SET promo.title = $title,
		    promo.description = $description,
		    promo.discountPercent = $discountPercent,
		    promo.startDate = $startDate,
		    promo.endDate = $endDate
		RETURN promo.id AS id`, map[string]any{
		"prestataireId":   prestataireID,
		"id":              promotionID,
		"title":           req.Title,
		"description":     req.Description,
		"discountPercent": req.DiscountPercent,
		"startDate":       graph.FormatTime(req.StartDate),
		"endDate":         graph.FormatTime(req.EndDate),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating promotion")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Promotion introuvable")
	}
	return nil
}

// DeletePromotion removes an owned promotion.
func (s *service) DeletePromotion(ctx context.Context, prestataireID string, promotionID int64) error {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})-[:HAS_PRODUCT]->(:Product)-[:HAS_PROMOTION]->(promo:Promotion {id: $id})
		WITH promo, promo.id AS deletedId
		DETACH DELETE promo
		RETURN deletedId`, map[string]any{
		"prestataireId": prestataireID,
		"id":            promotionID,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting promotion")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Promotion introuvable")
	}
	return nil
}

// ensureStore returns the vendor's store, creating the default storefront on
// first product for accounts approved before store setup.
func (s *service) ensureStore(ctx context.Context, prestataireID string) (*models.Store, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (st:Store {prestataireId: $prestataireId})
		RETURN st`, map[string]any{"prestataireId": prestataireID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading vendor store")
	}
	if len(rows) > 0 {
		if store := models.StoreFromNode(rows[0]["st"]); store != nil {
			return store, nil
		}
	}

	return s.UpsertStore(ctx, prestataireID, UpsertStoreRequest{
		Name:        "Ma Boutique",
		Description: "Bienvenue dans ma boutique",
		Address:     "Non spécifiée",
	})
}
