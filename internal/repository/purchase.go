package repository

import (
	"context"
	"fmt"

	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PurchaseRepo represents international purchase repository.
type PurchaseRepo struct{ db *pgxpool.Pool }

// NewPurchaseRepo creates a new PurchaseRepo.
func NewPurchaseRepo(db *pgxpool.Pool) *PurchaseRepo { return &PurchaseRepo{db: db} }

// Create inserts p and fills its ID and CreatedAt.
func (r *PurchaseRepo) Create(ctx context.Context, p *domain.InternationalPurchase) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO international_purchases
            (reference, client_id, product_name, product_url, country, quantity, max_price_cents, delivery_address, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at
    `, p.Reference, p.ClientID, p.ProductName, p.ProductURL, p.Country, p.Quantity,
		p.MaxPriceCents, p.DeliveryAddress, string(p.Status),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// ListByClient returns the client's purchase requests, newest first.
func (r *PurchaseRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.InternationalPurchase, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, reference::text, client_id, product_name, product_url, country, quantity,
               max_price_cents, delivery_address, status, created_at
        FROM international_purchases
        WHERE client_id = $1
        ORDER BY id DESC
    `, clientID)
	if err != nil {
		return nil, fmt.Errorf("list purchases of %d: %w", clientID, err)
	}
	defer rows.Close()

	var out []domain.InternationalPurchase
	for rows.Next() {
		var p domain.InternationalPurchase
		if err := rows.Scan(&p.ID, &p.Reference, &p.ClientID, &p.ProductName, &p.ProductURL, &p.Country,
			&p.Quantity, &p.MaxPriceCents, &p.DeliveryAddress, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
