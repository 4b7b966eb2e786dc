package models

import (
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/google/uuid"
)

// Notification mirrors the :Notification node. type partitions visibility:
// Admin notifications go to admins, Prestataire notifications carry the
// recipient's prestataireId.
type Notification struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	Type          enums.NotificationType `json:"type"`
	PrestataireID string                 `json:"prestataireId,omitempty"`
	IsRead        bool                   `json:"isRead"`
	CreatedAt     time.Time              `json:"createdAt"`
}

// NotificationFromNode maps a :Notification node. Nodes written before the
// schema repair mix lowerCamel and PascalCase keys, so every read coalesces
// both spellings and substitutes display fallbacks.
func NotificationFromNode(value any) *Notification {
	props, ok := graph.NodeProps(value)
	if !ok {
		return nil
	}

	id := graph.StringProp(props, "id")
	if id == "" {
		id = "missing_" + uuid.NewString()[:8]
	}

	createdAt := graph.TimeProp(props, "createdAt")
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return &Notification{
		ID:            id,
		Title:         graph.StringPropOr(props, "title", "Notification"),
		Message:       graph.StringPropOr(props, "message", "Consulter le détail dans les commandes."),
		Type:          enums.NotificationType(graph.StringPropOr(props, "type", string(enums.NotificationTypeAdmin))),
		PrestataireID: graph.StringProp(props, "prestataireId"),
		IsRead:        graph.BoolProp(props, "isRead"),
		CreatedAt:     createdAt,
	}
}
