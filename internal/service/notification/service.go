// Package notification stores user notifications and fans them out to the broker.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
)

// Routing keys on the notifications exchange.
const (
	KeyPush  = "push"
	KeyEmail = "email"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service persists notifications and publishes them for delivery.
type Service struct {
	repo             notificationRepository
	pub              Publisher
	logger           logx.Logger
	publishFailures  prometheus.Counter
	operationTimeout time.Duration
}

// NewService creates a notification Service. failures may be nil.
func NewService(repo notificationRepository, pub Publisher, logger logx.Logger, failures prometheus.Counter, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             repo,
		pub:              pub,
		logger:           logger,
		publishFailures:  failures,
		operationTimeout: timeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Notify stores n, then publishes it. The stored row is authoritative:
// a publish failure is logged and counted but not returned.
func (s *Service) Notify(ctx context.Context, n *domain.Notification) error {
	if n == nil || n.UserID <= 0 || strings.TrimSpace(n.Title) == "" {
		return apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.Insert(ctx, n); err != nil {
		return err
	}

	body, err := json.Marshal(n)
	if err == nil {
		err = s.pub.Publish(ctx, KeyPush, body)
	}
	if err != nil {
		s.failed("notification publish failed", err,
			logx.Int64("notification_id", n.ID),
			logx.Int64("user_id", n.UserID),
		)
	}
	return nil
}

// SendEmail publishes an e-mail job.
func (s *Service) SendEmail(ctx context.Context, e domain.Email) error {
	if !domain.ValidateEmail(e.To) || e.Template == "" {
		return apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}
	if err := s.pub.Publish(ctx, KeyEmail, body); err != nil {
		s.failed("email publish failed", err, logx.String("template", e.Template))
		return fmt.Errorf("%w: email: %v", apperr.ErrUnavailable, err)
	}
	return nil
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]domain.Notification, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Notification{}
	}
	return out, nil
}

// MarkRead flags a notification as read. Notifications of other users are reported as not found.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: notification %d", apperr.ErrNotFound, id)
	}
	return nil
}

func (s *Service) failed(msg string, err error, fields ...logx.Field) {
	if s.publishFailures != nil {
		s.publishFailures.Inc()
	}
	s.logger.Warn(msg, append(fields, logx.Err(err))...)
}
