package repository

import (
	"context"
	"fmt"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProviderRepo stores schedules and evaluations of service providers.
type ProviderRepo struct{ db *pgxpool.Pool }

// NewProviderRepo creates a new ProviderRepo.
func NewProviderRepo(db *pgxpool.Pool) *ProviderRepo { return &ProviderRepo{db: db} }

// UpsertSchedule replaces the provider's slot for s.Weekday and fills s.ID.
func (r *ProviderRepo) UpsertSchedule(ctx context.Context, s *domain.Schedule) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO schedules (provider_id, weekday, start_time, end_time)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (provider_id, weekday)
        DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time
        RETURNING id
    `, s.ProviderID, s.Weekday, s.Start, s.End).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}
	return nil
}

// ListSchedules returns the provider's weekly slots ordered by weekday.
func (r *ProviderRepo) ListSchedules(ctx context.Context, providerID int64) ([]domain.Schedule, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, provider_id, weekday, start_time, end_time
        FROM schedules WHERE provider_id = $1 ORDER BY weekday
    `, providerID)
	if err != nil {
		return nil, fmt.Errorf("list schedules of %d: %w", providerID, err)
	}
	defer rows.Close()

	out := make([]domain.Schedule, 0, 7)
	for rows.Next() {
		var s domain.Schedule
		if err := rows.Scan(&s.ID, &s.ProviderID, &s.Weekday, &s.Start, &s.End); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateEvaluation stores e; a client may rate a provider once.
func (r *ProviderRepo) CreateEvaluation(ctx context.Context, e *domain.ServiceEvaluation) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO service_evaluations (provider_id, client_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, e.ProviderID, e.ClientID, e.Rating, e.Comment).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: provider already evaluated", apperr.ErrConflict)
		}
		if IsForeignKey(err) {
			return fmt.Errorf("%w: provider %d", apperr.ErrNotFound, e.ProviderID)
		}
		return fmt.Errorf("create evaluation: %w", err)
	}
	return nil
}

// EvaluationSummary aggregates the provider's ratings.
func (r *ProviderRepo) EvaluationSummary(ctx context.Context, providerID int64) (domain.EvaluationSummary, error) {
	sum := domain.EvaluationSummary{ProviderID: providerID}
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8
        FROM service_evaluations WHERE provider_id = $1
    `, providerID).Scan(&sum.Count, &sum.Average)
	if err != nil {
		return domain.EvaluationSummary{}, fmt.Errorf("evaluation summary of %d: %w", providerID, err)
	}
	return sum, nil
}

// CreateTransfer stores an airport transfer booking.
func (r *ProviderRepo) CreateTransfer(ctx context.Context, t *domain.AirportTransfer) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO airport_transfers (client_id, airport, flight_number, pickup_at, passengers, direction, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `, t.ClientID, t.Airport, t.FlightNumber, t.PickupAt, t.Passengers, string(t.Direction), t.Status,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// ListTransfers returns the client's bookings by pickup time.
func (r *ProviderRepo) ListTransfers(ctx context.Context, clientID int64) ([]domain.AirportTransfer, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, client_id, airport, flight_number, pickup_at, passengers, direction, status, created_at
        FROM airport_transfers WHERE client_id = $1 ORDER BY pickup_at
    `, clientID)
	if err != nil {
		return nil, fmt.Errorf("list transfers of %d: %w", clientID, err)
	}
	defer rows.Close()

	var out []domain.AirportTransfer
	for rows.Next() {
		var t domain.AirportTransfer
		if err := rows.Scan(&t.ID, &t.ClientID, &t.Airport, &t.FlightNumber, &t.PickupAt,
			&t.Passengers, &t.Direction, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
