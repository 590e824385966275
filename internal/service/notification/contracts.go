package notification

import (
	"context"

	"ecodeli/internal/domain"
)

type notificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
}

// Publisher delivers a message to the broker.
type Publisher interface {
	Publish(ctx context.Context, key string, body []byte) error
}
