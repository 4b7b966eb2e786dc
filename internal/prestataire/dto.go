package prestataire

import (
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
)

// UpsertStoreRequest creates or renames the vendor's single store.
type UpsertStoreRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Address     string `json:"address" validate:"max=300"`
}

// StoreWithProducts is the vendor storefront snapshot.
type StoreWithProducts struct {
	Store    *models.Store     `json:"store"`
	Products []*models.Product `json:"products"`
}

// CreateProductRequest adds a product to the vendor's store.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
	Stock       int64   `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" validate:"max=120"`
	Description string  `json:"description" validate:"max=2000"`
}

// UpdateProductRequest overwrites the mutable product fields.
type UpdateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
	Stock       int64   `json:"stock" validate:"gte=0"`
	Category    string  `json:"category" validate:"max=120"`
	Description string  `json:"description" validate:"max=2000"`
	IsActive    bool    `json:"isActive"`
}

// UpdateOrderStatusRequest moves an order along its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderView joins the order with buyer and product display fields, with
// placeholders when the linked nodes are gone.
type OrderView struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	Status        string    `json:"status"`
	TotalAmount   float64   `json:"totalAmount"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	ProductName   string    `json:"productName"`
	Quantity      int64     `json:"quantity"`
}

// StatsResponse is the vendor dashboard aggregate.
type StatsResponse struct {
	TotalProducts int64   `json:"totalProducts"`
	TotalOrders   int64   `json:"totalOrders"`
	PendingOrders int64   `json:"pendingOrders"`
	TotalReviews  int64   `json:"totalReviews"`
	AverageRating float64 `json:"averageRating"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// ReviewView joins a review with its author and the reviewed product.
type ReviewView struct {
	Review      *models.Review `json:"review"`
	ProductName string         `json:"productName"`
	AuthorName  string         `json:"authorName"`
}

// CreateReviewRequest posts a client's review of a product.
type CreateReviewRequest struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	Rating    int64  `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// UpdateReviewRequest rewrites the author's rating and comment.
type UpdateReviewRequest struct {
	Rating  int64  `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// CreatePromotionRequest attaches a discount to one of the vendor's products.
type CreatePromotionRequest struct {
	ProductID       int64     `json:"productId" validate:"required,gt=0"`
	Title           string    `json:"title" validate:"required,min=2,max=200"`
	Description     string    `json:"description" validate:"max=2000"`
	DiscountPercent float64   `json:"discountPercent" validate:"required,gt=0,lte=100"`
	StartDate       time.Time `json:"startDate" validate:"required"`
	EndDate         time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	Code            string    `json:"code" validate:"omitempty,max=32"`
	UsageLimit      int64     `json:"usageLimit" validate:"gte=0"`
}

// UpdatePromotionRequest rewrites the discount window.
type UpdatePromotionRequest struct {
	Title           string    `json:"title" validate:"required,min=2,max=200"`
	Description     string    `json:"description" validate:"max=2000"`
	DiscountPercent float64   `json:"discountPercent" validate:"required,gt=0,lte=100"`
	StartDate       time.Time `json:"startDate" validate:"required"`
	EndDate         time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
}

// PromotionView pairs a promotion with its product display fields.
type PromotionView struct {
	Promotion   *models.Promotion `json:"promotion"`
	ProductName string            `json:"productName"`
}
