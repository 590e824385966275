package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecodeli/internal/domain"
	"ecodeli/internal/ports/deliverytx"
)

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				panic(rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const deliveryColumns = `id, announcement_id, courier_id, status, validation_code, created_at, updated_at, validated_at`

func scanDelivery(row interface{ Scan(...any) error }) (*domain.CourierDelivery, error) {
	var d domain.CourierDelivery
	err := row.Scan(&d.ID, &d.AnnouncementID, &d.CourierID, &d.Status, &d.ValidationCode,
		&d.CreatedAt, &d.UpdatedAt, &d.ValidatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Get returns the delivery or nil when none exists.
func (r *DeliveryRepo) Get(ctx context.Context, id int64) (*domain.CourierDelivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM courier_deliveries WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %d: %w", id, err)
	}
	return d, nil
}

// List returns the courier's deliveries, newest first.
func (r *DeliveryRepo) List(ctx context.Context, f domain.DeliveryFilter) ([]domain.CourierDelivery, error) {
	q := `SELECT ` + deliveryColumns + ` FROM courier_deliveries WHERE courier_id = $1`
	args := []any{f.CourierID}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	q += " ORDER BY id DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CourierDelivery, 0, f.Limit)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// ListStalePending returns ids of pending deliveries created before cutoff.
func (r *DeliveryRepo) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id FROM courier_deliveries
        WHERE status = $1 AND created_at < $2
        ORDER BY id
        LIMIT $3
    `, string(domain.DeliveryPending), cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale deliveries: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

// GetAnnouncementForUpdate - locks the announcement row.
func (r *TxRepo) GetAnnouncementForUpdate(ctx context.Context, id int64) (*domain.CourierAnnouncement, error) {
	a, err := scanAnnouncement(r.tx.QueryRow(ctx,
		`SELECT `+announcementColumns+` FROM courier_announcements WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock announcement %d: %w", id, err)
	}
	return a, nil
}

// UpdateAnnouncementStatus - update announcement status.
func (r *TxRepo) UpdateAnnouncementStatus(ctx context.Context, id int64, status domain.AnnouncementStatus) error {
	ct, err := r.tx.Exec(ctx, `UPDATE courier_announcements SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update announcement status %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("announcement %d not found", id)
	}
	return nil
}

// InsertDelivery - insert a new delivery. A zero CreatedAt falls back to now().
func (r *TxRepo) InsertDelivery(ctx context.Context, d *domain.CourierDelivery) error {
	var createdAt *time.Time
	if !d.CreatedAt.IsZero() {
		createdAt = &d.CreatedAt
	}
	err := r.tx.QueryRow(ctx, `
        INSERT INTO courier_deliveries (announcement_id, courier_id, status, validation_code, created_at, updated_at)
        VALUES ($1, $2, $3, $4, COALESCE($5::timestamptz, now()), COALESCE($5::timestamptz, now()))
        RETURNING id, created_at, updated_at
    `, d.AnnouncementID, d.CourierID, string(d.Status), d.ValidationCode, createdAt).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// GetDeliveryForUpdate - locks the delivery row.
func (r *TxRepo) GetDeliveryForUpdate(ctx context.Context, id int64) (*domain.CourierDelivery, error) {
	d, err := scanDelivery(r.tx.QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM courier_deliveries WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock delivery %d: %w", id, err)
	}
	return d, nil
}

// UpdateDeliveryStatus - update delivery status; validatedAt is only written when non-nil.
func (r *TxRepo) UpdateDeliveryStatus(ctx context.Context, id int64, status domain.DeliveryStatus, validatedAt *time.Time) error {
	ct, err := r.tx.Exec(ctx, `
        UPDATE courier_deliveries
        SET status = $2,
            validated_at = COALESCE($3, validated_at),
            updated_at = now()
        WHERE id = $1
    `, id, string(status), validatedAt)
	if err != nil {
		return fmt.Errorf("update delivery status %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d not found", id)
	}
	return nil
}

// InsertEscrow - hold funds for a delivery.
func (r *TxRepo) InsertEscrow(ctx context.Context, e *domain.Escrow) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO escrows (delivery_id, payer_id, amount_cents, currency, provider_ref, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `, e.DeliveryID, e.PayerID, e.AmountCents, e.Currency, e.ProviderRef, string(e.Status),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert escrow: %w", err)
	}
	return nil
}

// GetEscrowByDelivery - returns the escrow of a delivery or nil.
func (r *TxRepo) GetEscrowByDelivery(ctx context.Context, deliveryID int64) (*domain.Escrow, error) {
	e, err := scanEscrow(r.tx.QueryRow(ctx,
		`SELECT `+escrowColumns+` FROM escrows WHERE delivery_id = $1 FOR UPDATE`, deliveryID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get escrow of delivery %d: %w", deliveryID, err)
	}
	return e, nil
}

// UpdateEscrowStatus - update escrow status.
func (r *TxRepo) UpdateEscrowStatus(ctx context.Context, id int64, status domain.EscrowStatus) error {
	ct, err := r.tx.Exec(ctx, `UPDATE escrows SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update escrow status %d: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("escrow %d not found", id)
	}
	return nil
}
