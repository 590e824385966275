package provider

import (
	"context"

	"ecodeli/internal/domain"
)

type providerRepository interface {
	UpsertSchedule(ctx context.Context, s *domain.Schedule) error
	ListSchedules(ctx context.Context, providerID int64) ([]domain.Schedule, error)
	CreateEvaluation(ctx context.Context, e *domain.ServiceEvaluation) error
	EvaluationSummary(ctx context.Context, providerID int64) (domain.EvaluationSummary, error)
	CreateTransfer(ctx context.Context, t *domain.AirportTransfer) error
	ListTransfers(ctx context.Context, clientID int64) ([]domain.AirportTransfer, error)
}

type userRepository interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
}
