package models

import (
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
)

// Review mirrors the :Review node written by a user about a product.
type Review struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	ProductID int64     `json:"productId"`
	Rating    int64     `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func ReviewFromNode(value any) *Review {
	props, ok := graph.NodeProps(value)
	if !ok {
		return nil
	}
	return &Review{
		ID:        graph.IntProp(props, "id"),
		UserID:    graph.StringProp(props, "userId"),
		ProductID: graph.IntProp(props, "productId"),
		Rating:    graph.IntProp(props, "rating"),
		Comment:   graph.StringProp(props, "comment"),
		CreatedAt: graph.TimeProp(props, "createdAt"),
	}
}
