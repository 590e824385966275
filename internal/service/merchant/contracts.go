package merchant

import (
	"context"

	"ecodeli/internal/domain"
)

type cartDropRepository interface {
	Create(ctx context.Context, c *domain.CartDrop) error
	ListByMerchant(ctx context.Context, merchantID int64) ([]domain.CartDrop, error)
	CountByStatus(ctx context.Context, merchantID int64) (map[domain.CartDropStatus]int64, error)
}

type userRepository interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
}
