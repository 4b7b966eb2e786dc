package marketplace

import "time"

// ProductListing is the public catalog row with any live discount applied.
type ProductListing struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
	Stock       int64   `json:"stock"`
	StoreName   string  `json:"storeName"`
	Discount    float64 `json:"discount"`
	FinalPrice  float64 `json:"finalPrice"`
}

// PromotedListing is the promoted-carousel row.
type PromotedListing struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	OriginalPrice  float64   `json:"originalPrice"`
	ImageURL       string    `json:"imageUrl"`
	Category       string    `json:"category"`
	PromotionTitle string    `json:"promotionTitle"`
	Discount       float64   `json:"discount"`
	FinalPrice     float64   `json:"finalPrice"`
	EndDate        time.Time `json:"endDate"`
}

// CreateOrderRequest places a single-product order.
type CreateOrderRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

// OrderConfirmation acknowledges a placed order.
type OrderConfirmation struct {
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
}

// MyOrder is the buyer's order-history row.
type MyOrder struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"productId"`
	ProductName  string    `json:"productName"`
	ProductImage string    `json:"productImage"`
	StoreName    string    `json:"storeName"`
	Quantity     int64     `json:"quantity"`
	TotalPrice   float64   `json:"totalPrice"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PayResponse reports the post-payment status.
type PayResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
