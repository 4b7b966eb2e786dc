package cart

import "time"

// AddToCartRequest puts a product in the basket. Quantity defaults to 1 at
// the controller when omitted.
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"gte=0"`
}

// UpdateQuantityRequest sets the absolute quantity; zero or less removes the
// line.
type UpdateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// ItemView is one basket line joined with product and store display fields.
type ItemView struct {
	ID           string    `json:"id"`
	ProductID    int64     `json:"productId"`
	ProductName  string    `json:"productName"`
	ProductPrice float64   `json:"productPrice"`
	ProductImage string    `json:"productImage"`
	Quantity     int64     `json:"quantity"`
	TotalPrice   float64   `json:"totalPrice"`
	StoreID      int64     `json:"storeId"`
	StoreName    string    `json:"storeName"`
	StoreAddress string    `json:"storeAddress"`
	StoreEmail   string    `json:"storeEmail"`
	AddedAt      time.Time `json:"addedAt"`
}

// View is the whole basket with its totals.
type View struct {
	Items      []ItemView `json:"items"`
	TotalItems int64      `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// CheckoutResponse lists the orders created from the basket.
type CheckoutResponse struct {
	OrderCount int     `json:"orderCount"`
	OrderIDs   []int64 `json:"orderIds"`
}
