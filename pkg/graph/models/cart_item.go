package models

import (
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
)

// CartItem mirrors the ephemeral :CartItem node between a user and a product.
// Checkout converts items to orders and deletes them.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID int64     `json:"productId"`
	Quantity  int64     `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

func CartItemFromNode(value any) *CartItem {
	props, ok := graph.NodeProps(value)
	if !ok {
		return nil
	}
	return &CartItem{
		ID:        graph.StringProp(props, "id"),
		UserID:    graph.StringProp(props, "userId"),
		ProductID: graph.IntProp(props, "productId"),
		Quantity:  graph.IntProp(props, "quantity"),
		AddedAt:   graph.TimeProp(props, "addedAt"),
	}
}
