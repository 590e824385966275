//go:generate mockgen -source=contracts.go -destination=delivery_mocks_test.go -package=delivery_test

package delivery

import (
	"context"
	"time"

	"ecodeli/internal/domain"
	"ecodeli/internal/ports/deliverytx"
)

type deliveryRepository interface {
	WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) error
	Get(ctx context.Context, id int64) (*domain.CourierDelivery, error)
	List(ctx context.Context, f domain.DeliveryFilter) ([]domain.CourierDelivery, error)
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]int64, error)
}

type announcementRepository interface {
	Create(ctx context.Context, a *domain.CourierAnnouncement) error
	Get(ctx context.Context, id int64) (*domain.CourierAnnouncement, error)
	ListOpen(ctx context.Context, limit, offset int) ([]domain.CourierAnnouncement, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.CourierAnnouncement, error)
}

// Settler settles escrows with the payment provider.
type Settler interface {
	Settle(ctx context.Context, e domain.Escrow) error
}

// Notifier informs users about delivery progress.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}
