package repository

import (
	"context"
	"fmt"

	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CartDropRepo represents cart drop repository.
type CartDropRepo struct{ db *pgxpool.Pool }

// NewCartDropRepo creates a new CartDropRepo.
func NewCartDropRepo(db *pgxpool.Pool) *CartDropRepo { return &CartDropRepo{db: db} }

// Create inserts c and fills its ID and CreatedAt.
func (r *CartDropRepo) Create(ctx context.Context, c *domain.CartDrop) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO cart_drops (merchant_id, customer_name, address, time_slot, items, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `, c.MerchantID, c.CustomerName, c.Address, c.TimeSlot, c.Items, string(c.Status),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create cart drop: %w", err)
	}
	return nil
}

// ListByMerchant returns the merchant's cart drops, newest first.
func (r *CartDropRepo) ListByMerchant(ctx context.Context, merchantID int64) ([]domain.CartDrop, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, merchant_id, customer_name, address, time_slot, items, status, created_at
        FROM cart_drops WHERE merchant_id = $1 ORDER BY id DESC
    `, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list cart drops of %d: %w", merchantID, err)
	}
	defer rows.Close()

	var out []domain.CartDrop
	for rows.Next() {
		var c domain.CartDrop
		if err := rows.Scan(&c.ID, &c.MerchantID, &c.CustomerName, &c.Address, &c.TimeSlot,
			&c.Items, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountByStatus returns the merchant's cart drop counts keyed by status.
func (r *CartDropRepo) CountByStatus(ctx context.Context, merchantID int64) (map[domain.CartDropStatus]int64, error) {
	rows, err := r.db.Query(ctx, `
        SELECT status, COUNT(*) FROM cart_drops WHERE merchant_id = $1 GROUP BY status
    `, merchantID)
	if err != nil {
		return nil, fmt.Errorf("count cart drops of %d: %w", merchantID, err)
	}
	defer rows.Close()

	out := make(map[domain.CartDropStatus]int64)
	for rows.Next() {
		var (
			status domain.CartDropStatus
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}
