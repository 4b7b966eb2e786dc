package models

import (
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
)

// Order mirrors the :Order node. totalPrice is frozen at order time and never
// recomputed from the product.
type Order struct {
	ID         int64             `json:"id"`
	UserID     string            `json:"userId"`
	StoreID    int64             `json:"storeId"`
	ProductID  int64             `json:"productId"`
	Quantity   int64             `json:"quantity"`
	TotalPrice float64           `json:"totalPrice"`
	Status     enums.OrderStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func OrderFromNode(value any) *Order {
	props, ok := graph.NodeProps(value)
	if !ok {
		return nil
	}
	status := enums.OrderStatus(graph.StringPropOr(props, "status", string(enums.OrderStatusPending)))
	return &Order{
		ID:         graph.IntProp(props, "id"),
		UserID:     graph.StringProp(props, "userId"),
		StoreID:    graph.IntProp(props, "storeId"),
		ProductID:  graph.IntProp(props, "productId"),
		Quantity:   graph.IntProp(props, "quantity"),
		TotalPrice: graph.FloatProp(props, "totalPrice"),
		Status:     status,
		CreatedAt:  graph.TimeProp(props, "createdAt"),
	}
}
