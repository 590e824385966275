package repository

import (
	"context"
	"fmt"

	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AnnouncementRepo represents courier announcement repository.
type AnnouncementRepo struct{ db *pgxpool.Pool }

// NewAnnouncementRepo creates a new AnnouncementRepo.
func NewAnnouncementRepo(db *pgxpool.Pool) *AnnouncementRepo { return &AnnouncementRepo{db: db} }

const announcementColumns = `id, owner_id, title, from_address, to_address, price_cents, insurance_tier, payment_ref, deadline, status, created_at`

func scanAnnouncement(row interface{ Scan(...any) error }) (*domain.CourierAnnouncement, error) {
	var a domain.CourierAnnouncement
	err := row.Scan(&a.ID, &a.OwnerID, &a.Title, &a.FromAddress, &a.ToAddress, &a.PriceCents,
		&a.InsuranceTier, &a.PaymentRef, &a.Deadline, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a and fills its ID, Status and CreatedAt.
func (r *AnnouncementRepo) Create(ctx context.Context, a *domain.CourierAnnouncement) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO courier_announcements
            (owner_id, title, from_address, to_address, price_cents, insurance_tier, payment_ref, deadline, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at
    `, a.OwnerID, a.Title, a.FromAddress, a.ToAddress, a.PriceCents, string(a.InsuranceTier),
		a.PaymentRef, a.Deadline, string(a.Status),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Get returns the announcement or nil when none exists.
func (r *AnnouncementRepo) Get(ctx context.Context, id int64) (*domain.CourierAnnouncement, error) {
	a, err := scanAnnouncement(r.db.QueryRow(ctx,
		`SELECT `+announcementColumns+` FROM courier_announcements WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get announcement %d: %w", id, err)
	}
	return a, nil
}

// ListOpen returns open announcements, oldest first.
func (r *AnnouncementRepo) ListOpen(ctx context.Context, limit, offset int) ([]domain.CourierAnnouncement, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+announcementColumns+`
        FROM courier_announcements
        WHERE status = $1
        ORDER BY id
        LIMIT $2 OFFSET $3
    `, string(domain.AnnouncementOpen), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list open announcements: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CourierAnnouncement, 0, limit)
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// ListByOwner returns the announcements published by ownerID, newest first.
func (r *AnnouncementRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.CourierAnnouncement, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+announcementColumns+`
        FROM courier_announcements
        WHERE owner_id = $1
        ORDER BY id DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list announcements of %d: %w", ownerID, err)
	}
	defer rows.Close()

	var out []domain.CourierAnnouncement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
