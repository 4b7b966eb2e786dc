package models

import (
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
)

// Promotion mirrors the :Promotion node linked to a product. A promotion is
// live while endDate is in the future; startDate is stored but listing does
// not gate on it.
type Promotion struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"productId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DiscountPercent float64   `json:"discountPercent"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	Code            string    `json:"code"`
	UsageLimit      int64     `json:"usageLimit"`
	UsageCount      int64     `json:"usageCount"`
}

func PromotionFromNode(value any) *Promotion {
	props, ok := graph.NodeProps(value)
	if !ok {
		return nil
	}
	return &Promotion{
		ID:              graph.IntProp(props, "id"),
		ProductID:       graph.IntProp(props, "productId"),
		Title:           graph.StringProp(props, "title"),
		Description:     graph.StringProp(props, "description"),
		DiscountPercent: graph.FloatProp(props, "discountPercent"),
		StartDate:       graph.TimeProp(props, "startDate"),
		EndDate:         graph.TimeProp(props, "endDate"),
		Code:            graph.StringProp(props, "code"),
		UsageLimit:      graph.IntProp(props, "usageLimit"),
		UsageCount:      graph.IntProp(props, "usageCount"),
	}
}

// Active reports whether the promotion still applies at the given instant.
func (p *Promotion) Active(now time.Time) bool {
	if p == nil {
		return false
	}
	return p.EndDate.After(now)
}

// FinalPrice applies the discount to a base price.
func (p *Promotion) FinalPrice(price float64) float64 {
	if p == nil {
		return price
	}
	return price * (1 - p.DiscountPercent/100)
}
