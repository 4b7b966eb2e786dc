package models

import "github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"

// Store mirrors the :Store node owned by one prestataire.
type Store struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Address       string `json:"address"`
	PrestataireID string `json:"prestataireId"`
}

func StoreFromNode(value any) *Store {
	props, ok := graph.NodeProps(value)
	if !ok {
		return nil
	}
	return &Store{
		ID:            graph.IntProp(props, "id"),
		Name:          graph.StringProp(props, "name"),
		Description:   graph.StringProp(props, "description"),
		Address:       graph.StringProp(props, "address"),
		PrestataireID: graph.StringProp(props, "prestataireId"),
	}
}
