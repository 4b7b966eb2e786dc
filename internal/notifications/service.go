package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
	"github.com/google/uuid"
)

// Service defines the behavior needed by the notification controllers.
type Service interface {
	ListForAdmin(ctx context.Context) ([]*models.Notification, error)
	ListForPrestataire(ctx context.Context, prestataireID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type service struct {
	db graph.Runner
}

// NewService constructs a notification service over the graph.
func NewService(db graph.Runner) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("graph runner is required")
	}
	return &service{db: db}, nil
}

// NotifyAdmin creates an admin-audience notification through the given runner.
// Callers inside a transaction pass their transaction runner so the fan-out
// commits or rolls back with the triggering mutation.
func NotifyAdmin(ctx context.Context, run graph.Runner, title, message string) error {
	return create(ctx, run, &models.Notification{
		Title:   title,
		Message: message,
		Type:    enums.NotificationTypeAdmin,
	})
}

// NotifyPrestataire creates a notification addressed to one prestataire.
func NotifyPrestataire(ctx context.Context, run graph.Runner, prestataireID, title, message string) error {
	return create(ctx, run, &models.Notification{
		Title:         title,
		Message:       message,
		Type:          enums.NotificationTypePrestataire,
		PrestataireID: prestataireID,
	})
}

func create(ctx context.Context, run graph.Runner, n *models.Notification) error {
	_, err := run.Run(ctx, `
		CREATE (n:Notification {
			id: $id,
			title: $title,
			message: $message,
			type: $type,
			prestataireId: $prestataireId,
			isRead: false,
			createdAt: $createdAt
		})`, map[string]any{
		"id":            uuid.NewString(),
		"title":         n.Title,
		"message":       n.Message,
		"type":          n.Type.String(),
		"prestataireId": n.PrestataireID,
		"createdAt":     graph.FormatTime(time.Now().UTC()),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating notification node")
	}
	return nil
}

// ListForAdmin returns the latest admin-audience notifications, newest first.
func (s *service) ListForAdmin(ctx context.Context) ([]*models.Notification, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (n:Notification)
		WHERE coalesce(n.type, n.Type) = $type
		RETURN n
		ORDER BY coalesce(n.createdAt, n.CreatedAt) DESC
		LIMIT 20`, map[string]any{
		"type": enums.NotificationTypeAdmin.String(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing admin notifications")
	}
	return collectNotifications(rows), nil
}

// ListForPrestataire returns only the notifications addressed to the given
// prestataire. Other vendors' notifications stay invisible.
func (s *service) ListForPrestataire(ctx context.Context, prestataireID string) ([]*models.Notification, error) {
	rows, err := s.db.Run(ctx, `
		MATCH (n:Notification)
		WHERE coalesce(n.type, n.Type) = $type
		  AND coalesce(n.prestataireId, n.PrestataireId) = $prestataireId
		RETURN n
		ORDER BY coalesce(n.createdAt, n.CreatedAt) DESC`, map[string]any{
		"type":          enums.NotificationTypePrestataire.String(),
		"prestataireId": prestataireID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing prestataire notifications")
	}
	return collectNotifications(rows), nil
}

// MarkRead flips the read flag. Re-marking an already-read notification is a
// no-op success; an unknown id is a 404.
func (s *service) MarkRead(ctx context.Context, id string) error {
	rows, err := s.db.Run(ctx, `
		MATCH (n:Notification)
		WHERE coalesce(n.id, n.Id) = $id
		SET n.isRead = true
		RETURN n.id AS id`, map[string]any{"id": id})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking notification read")
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification introuvable")
	}
	return nil
}

func collectNotifications(rows []graph.Row) []*models.Notification {
	out := make([]*models.Notification, 0, len(rows))
	for _, row := range rows {
		if n := models.NotificationFromNode(row["n"]); n != nil {
			out = append(out, n)
		}
	}
	return out
}
