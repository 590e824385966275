// Package payment exposes escrow settings, insurance tiers and provider-side payment state.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecodeli/internal/apperr"
	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
)

// Config holds the static escrow settings.
type Config struct {
	Currency       string
	PublishableKey string
}

// Service reads escrow state and drives provider-side settlement.
type Service struct {
	escrows          escrowRepository
	gateway          Gateway
	cfg              domain.EscrowConfig
	logger           logx.Logger
	operationTimeout time.Duration
}

// NewService creates a payment Service.
func NewService(escrows escrowRepository, gw Gateway, cfg Config, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "eur"
	}
	return &Service{
		escrows: escrows,
		gateway: gw,
		cfg: domain.EscrowConfig{
			Currency:        currency,
			PlatformFeeBps:  1000,
			HoldDays:        7,
			MinAmountCents:  100,
			PublishableKey:  cfg.PublishableKey,
			ReleaseOnCodeOK: true,
		},
		logger:           logger,
		operationTimeout: timeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// EscrowConfig returns the static escrow constants.
func (s *Service) EscrowConfig() domain.EscrowConfig {
	return s.cfg
}

// Status returns the provider state of paymentID alongside the local escrow state.
// Payments of other users are reported as not found.
func (s *Service) Status(ctx context.Context, userID int64, paymentID string) (domain.PaymentStatus, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return domain.PaymentStatus{}, apperr.ErrInvalid
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	e, err := s.escrows.GetByProviderRef(ctx, paymentID)
	if err != nil {
		return domain.PaymentStatus{}, err
	}
	if e == nil {
		return domain.PaymentStatus{}, fmt.Errorf("%w: payment %q", apperr.ErrNotFound, paymentID)
	}
	if e.PayerID != userID {
		return domain.PaymentStatus{}, fmt.Errorf("%w: payment %q", apperr.ErrNotFound, paymentID)
	}

	in, err := s.gateway.GetIntent(ctx, paymentID)
	if err != nil {
		return domain.PaymentStatus{}, fmt.Errorf("payment status: %w", err)
	}
	return domain.PaymentStatus{
		ProviderRef: in.ID,
		Provider:    in.Status,
		AmountCents: in.Amount,
		Currency:    in.Currency,
		Escrow:      e.Status,
	}, nil
}

// Settle asks the provider to capture released funds or cancel refunded ones.
// Escrows without a provider reference are settled locally only.
func (s *Service) Settle(ctx context.Context, e domain.Escrow) error {
	if e.ProviderRef == "" {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var err error
	switch e.Status {
	case domain.EscrowReleased:
		_, err = s.gateway.Capture(ctx, e.ProviderRef)
	case domain.EscrowRefunded:
		_, err = s.gateway.Cancel(ctx, e.ProviderRef)
	default:
		return fmt.Errorf("%w: escrow %d is %s", apperr.ErrConflict, e.ID, e.Status)
	}
	if err != nil && !errors.Is(err, apperr.ErrConflict) {
		return fmt.Errorf("settle escrow %d: %w", e.ID, err)
	}
	if err != nil {
		// the provider already moved the intent; the event stream reconciles the row
		s.logger.Info("escrow already settled at provider",
			logx.Int64("escrow_id", e.ID),
			logx.String("provider_ref", e.ProviderRef),
			logx.Err(err),
		)
	}
	return nil
}
