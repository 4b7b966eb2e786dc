package admin

import "time"

// StatsResponse is the dashboard aggregate.
type StatsResponse struct {
	TotalClients        int64   `json:"totalClients"`
	TotalPrestataires   int64   `json:"totalPrestataires"`
	PendingPrestataires int64   `json:"pendingPrestataires"`
	TotalProducts       int64   `json:"totalProducts"`
	TotalOrders         int64   `json:"totalOrders"`
	TotalRevenue        float64 `json:"totalRevenue"`
	PendingOrders       int64   `json:"pendingOrders"`
}

// UserSummary is the admin-facing user row, with the vendor's store name when
// one exists.
type UserSummary struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
	StoreName  string    `json:"storeName,omitempty"`
}

// ProductSummary is the admin-facing catalog row.
type ProductSummary struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	ImageURL        string    `json:"imageUrl"`
	StoreName       string    `json:"storeName"`
	Category        string    `json:"category"`
	Stock           int64     `json:"stock"`
	PrestataireName string    `json:"prestataireName"`
	CreatedAt       time.Time `json:"createdAt"`
}

// OrderSummary joins the order with its buyer and product.
type OrderSummary struct {
	ID            int64     `json:"id"`
	ProductName   string    `json:"productName"`
	Quantity      int64     `json:"quantity"`
	TotalPrice    float64   `json:"totalPrice"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	OrderDate     time.Time `json:"orderDate"`
}

// PendingPrestataires lists the vendors awaiting approval.
type PendingPrestataires struct {
	Count             int           `json:"count"`
	TotalPrestataires int           `json:"totalPrestataires"`
	Prestataires      []UserSummary `json:"prestataires"`
}
