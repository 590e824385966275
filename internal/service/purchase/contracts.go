package purchase

import (
	"context"

	"ecodeli/internal/domain"
)

type purchaseRepository interface {
	Create(ctx context.Context, p *domain.InternationalPurchase) error
	ListByClient(ctx context.Context, clientID int64) ([]domain.InternationalPurchase, error)
}
