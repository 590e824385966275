package payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecodeli/internal/logx"
)

type gateway interface {
	GetIntent(context.Context, string) (*Intent, error)
	Capture(context.Context, string) (*Intent, error)
	Cancel(context.Context, string) (*Intent, error)
}

type counter interface {
	Inc()
}

// RetryConfig describes the RetryingGateway backoff.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingGateway retries throttled, failed and unreachable provider calls with exponential backoff.
type RetryingGateway struct {
	next    gateway
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	sleep   func(time.Duration)
}

// NewRetryingGateway returns nil when next is nil.
func NewRetryingGateway(next gateway, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg, sleep: time.Sleep}
}

// GetIntent implements the gateway.
func (g *RetryingGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	return g.retry(ctx, "GetIntent", func(ctx context.Context) (*Intent, error) { return g.next.GetIntent(ctx, id) })
}

// Capture implements the gateway.
func (g *RetryingGateway) Capture(ctx context.Context, id string) (*Intent, error) {
	return g.retry(ctx, "Capture", func(ctx context.Context) (*Intent, error) { return g.next.Capture(ctx, id) })
}

// Cancel implements the gateway.
func (g *RetryingGateway) Cancel(ctx context.Context, id string) (*Intent, error) {
	return g.retry(ctx, "Cancel", func(ctx context.Context) (*Intent, error) { return g.next.Cancel(ctx, id) })
}

func (g *RetryingGateway) retry(ctx context.Context, method string, call func(context.Context) (*Intent, error)) (*Intent, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		in, err := call(ctx)
		if err == nil {
			return in, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("payment gateway retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, g.sleep, delay) {
			break
		}
	}
	return nil, lastErr
}

// isRetryable reports whether err is a throttle, a provider failure or a transport error.
func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var te *transportError
	return errors.As(err, &te)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max || d < 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	done := make(chan struct{})
	go func() {
		sleep(d)
		close(done)
	}()
	select {
	case <-ctx.Done():
		return false
	case <-done:
		return true
	}
}
