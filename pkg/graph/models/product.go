package models

import (
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
)

// Product mirrors the :Product node attached to a store via HAS_PRODUCT.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	StoreID     int64     `json:"storeId"`
	Stock       int64     `json:"stock"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ProductFromNode(value any) *Product {
	props, ok := graph.NodeProps(value)
	if !ok {
		return nil
	}
	return &Product{
		ID:          graph.IntProp(props, "id"),
		Name:        graph.StringProp(props, "name"),
		Price:       graph.FloatProp(props, "price"),
		ImageURL:    graph.StringProp(props, "imageUrl"),
		StoreID:     graph.IntProp(props, "storeId"),
		Stock:       graph.IntProp(props, "stock"),
		Category:    graph.StringProp(props, "category"),
		Description: graph.StringProp(props, "description"),
		// Nodes created before the flag existed are treated as active.
		IsActive:  graph.BoolPropOr(props, "isActive", true),
		CreatedAt: graph.TimeProp(props, "createdAt"),
	}
}
