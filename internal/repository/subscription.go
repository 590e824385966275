package repository

import (
	"context"
	"fmt"

	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SubscriptionRepo represents subscription repository.
type SubscriptionRepo struct{ db *pgxpool.Pool }

// NewSubscriptionRepo creates a new SubscriptionRepo.
func NewSubscriptionRepo(db *pgxpool.Pool) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// Get returns the user's subscription or nil when none was chosen.
func (r *SubscriptionRepo) Get(ctx context.Context, userID int64) (*domain.Subscription, error) {
	var s domain.Subscription
	err := r.db.QueryRow(ctx,
		`SELECT user_id, plan, started_at FROM subscriptions WHERE user_id = $1`, userID,
	).Scan(&s.UserID, &s.Plan, &s.StartedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription of %d: %w", userID, err)
	}
	return &s, nil
}

// Upsert stores the user's plan.
func (r *SubscriptionRepo) Upsert(ctx context.Context, s *domain.Subscription) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO subscriptions (user_id, plan, started_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, started_at = EXCLUDED.started_at
    `, s.UserID, string(s.Plan), s.StartedAt)
	if err != nil {
		return fmt.Errorf("upsert subscription of %d: %w", s.UserID, err)
	}
	return nil
}
