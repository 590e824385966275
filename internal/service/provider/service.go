package provider

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
)

const (
	maxCommentLength = 500
	maxPassengers    = 8
	transferBooked   = "booked"
)

// Service manages provider schedules, client evaluations and airport transfers.
type Service struct {
	repo             providerRepository
	users            userRepository
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a provider Service.
func NewService(repo providerRepository, users userRepository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             repo,
		users:            users,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// ParseClock parses a 24h "HH:MM" value into minutes after midnight.
func ParseClock(v string) (int, bool) {
	if len(v) != 5 || v[2] != ':' {
		return 0, false
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// ValidIATA reports whether v is a three upper-case letter airport code.
func ValidIATA(v string) bool {
	if len(v) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if v[i] < 'A' || v[i] > 'Z' {
			return false
		}
	}
	return true
}

// SetSchedule replaces the provider's availability for one weekday.
func (s *Service) SetSchedule(ctx context.Context, providerID int64, weekday int, start, end string) (*domain.Schedule, error) {
	if weekday < 0 || weekday > 6 {
		return nil, fmt.Errorf("%w: weekday must be 0..6", apperr.ErrInvalid)
	}
	from, ok1 := ParseClock(start)
	to, ok2 := ParseClock(end)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("%w: times must be HH:MM", apperr.ErrInvalid)
	}
	if from >= to {
		return nil, fmt.Errorf("%w: start must be before end", apperr.ErrInvalid)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sc := &domain.Schedule{ProviderID: providerID, Weekday: weekday, Start: start, End: end}
	if err := s.repo.UpsertSchedule(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Schedules lists a provider's weekly slots.
func (s *Service) Schedules(ctx context.Context, providerID int64) ([]domain.Schedule, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.repo.ListSchedules(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Schedule{}
	}
	return out, nil
}

// Evaluate records a client's rating of a provider.
// Users without the provider role are reported as not found.
func (s *Service) Evaluate(ctx context.Context, clientID, providerID int64, rating int, comment string) (*domain.ServiceEvaluation, error) {
	comment = strings.TrimSpace(comment)
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be 1..5", apperr.ErrInvalid)
	}
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment longer than %d characters", apperr.ErrInvalid, maxCommentLength)
	}
	if clientID == providerID {
		return nil, fmt.Errorf("%w: cannot evaluate yourself", apperr.ErrInvalid)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := s.users.Get(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != domain.RoleProvider {
		return nil, fmt.Errorf("%w: provider %d", apperr.ErrNotFound, providerID)
	}

	e := &domain.ServiceEvaluation{ProviderID: providerID, ClientID: clientID, Rating: rating, Comment: comment}
	if err := s.repo.CreateEvaluation(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("provider evaluated",
		logx.Int64("provider_id", providerID),
		logx.Int64("client_id", clientID),
		logx.Int("rating", rating),
	)
	return e, nil
}

// Summary aggregates a provider's ratings.
func (s *Service) Summary(ctx context.Context, providerID int64) (domain.EvaluationSummary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.repo.EvaluationSummary(ctx, providerID)
}

// TransferInput is an airport transfer booking request.
type TransferInput struct {
	Airport      string
	FlightNumber string
	PickupAt     time.Time
	Passengers   int
	Direction    domain.TransferDirection
}

// BookTransfer books a ride to or from an airport.
func (s *Service) BookTransfer(ctx context.Context, clientID int64, in TransferInput) (*domain.AirportTransfer, error) {
	flight := strings.ToUpper(strings.ReplaceAll(in.FlightNumber, " ", ""))
	switch {
	case !ValidIATA(in.Airport):
		return nil, fmt.Errorf("%w: airport must be an IATA code", apperr.ErrInvalid)
	case flight == "":
		return nil, fmt.Errorf("%w: flight number is required", apperr.ErrInvalid)
	case !in.PickupAt.After(s.now()):
		return nil, fmt.Errorf("%w: pickup must be in the future", apperr.ErrInvalid)
	case in.Passengers < 1 || in.Passengers > maxPassengers:
		return nil, fmt.Errorf("%w: passengers must be 1..%d", apperr.ErrInvalid, maxPassengers)
	case in.Direction != domain.TransferArrival && in.Direction != domain.TransferDeparture:
		return nil, fmt.Errorf("%w: unknown direction %q", apperr.ErrInvalid, in.Direction)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	t := &domain.AirportTransfer{
		ClientID:     clientID,
		Airport:      in.Airport,
		FlightNumber: flight,
		PickupAt:     in.PickupAt.UTC(),
		Passengers:   in.Passengers,
		Direction:    in.Direction,
		Status:       transferBooked,
	}
	if err := s.repo.CreateTransfer(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Transfers lists a client's bookings.
func (s *Service) Transfers(ctx context.Context, clientID int64) ([]domain.AirportTransfer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.repo.ListTransfers(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.AirportTransfer{}
	}
	return out, nil
}
