package subscription

import (
	"context"

	"ecodeli/internal/domain"
)

type subscriptionRepository interface {
	Get(ctx context.Context, userID int64) (*domain.Subscription, error)
	Upsert(ctx context.Context, s *domain.Subscription) error
}
