package deliverytx

import (
	"context"
	"time"

	"ecodeli/internal/domain"
)

// Repository is the set of delivery operations run inside one transaction.
type Repository interface {
	GetAnnouncementForUpdate(ctx context.Context, id int64) (*domain.CourierAnnouncement, error)
	UpdateAnnouncementStatus(ctx context.Context, id int64, status domain.AnnouncementStatus) error
	InsertDelivery(ctx context.Context, d *domain.CourierDelivery) error
	GetDeliveryForUpdate(ctx context.Context, id int64) (*domain.CourierDelivery, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, status domain.DeliveryStatus, validatedAt *time.Time) error
	InsertEscrow(ctx context.Context, e *domain.Escrow) error
	GetEscrowByDelivery(ctx context.Context, deliveryID int64) (*domain.Escrow, error)
	UpdateEscrowStatus(ctx context.Context, id int64, status domain.EscrowStatus) error
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
