package repository

import (
	"context"
	"fmt"

	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EscrowRepo represents escrow repository.
type EscrowRepo struct{ db *pgxpool.Pool }

// NewEscrowRepo creates a new EscrowRepo.
func NewEscrowRepo(db *pgxpool.Pool) *EscrowRepo { return &EscrowRepo{db: db} }

const escrowColumns = `id, delivery_id, payer_id, amount_cents, currency, provider_ref, status, created_at, updated_at`

func scanEscrow(row interface{ Scan(...any) error }) (*domain.Escrow, error) {
	var e domain.Escrow
	err := row.Scan(&e.ID, &e.DeliveryID, &e.PayerID, &e.AmountCents, &e.Currency,
		&e.ProviderRef, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByProviderRef returns the escrow for a provider payment id or nil.
func (r *EscrowRepo) GetByProviderRef(ctx context.Context, ref string) (*domain.Escrow, error) {
	e, err := scanEscrow(r.db.QueryRow(ctx,
		`SELECT `+escrowColumns+` FROM escrows WHERE provider_ref = $1 ORDER BY id DESC LIMIT 1`, ref))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get escrow by ref %q: %w", ref, err)
	}
	return e, nil
}

// SetStatusByProviderRef moves the held escrows of ref to status.
// Released, refunded and failed escrows are final and left untouched.
// It returns the number of rows changed.
func (r *EscrowRepo) SetStatusByProviderRef(ctx context.Context, ref string, status domain.EscrowStatus) (int64, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE escrows
        SET status = $2, updated_at = now()
        WHERE provider_ref = $1 AND status = $3
    `, ref, string(status), string(domain.EscrowHeld))
	if err != nil {
		return 0, fmt.Errorf("set escrow status by ref %q: %w", ref, err)
	}
	return ct.RowsAffected(), nil
}
