package models

import "github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"

// Role mirrors the :Role node. normalizedName is always the upper-cased name
// and every membership check matches on it.
type Role struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalizedName"`
}

func RoleFromNode(value any) *Role {
	props, ok := graph.NodeProps(value)
	if !ok {
		return nil
	}
	return &Role{
		ID:             graph.StringProp(props, "id"),
		Name:           graph.StringProp(props, "name"),
		NormalizedName: graph.StringProp(props, "normalizedName"),
	}
}
