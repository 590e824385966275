package payment

import (
	"context"
	"fmt"
	"strings"

	"ecodeli/internal/domain"
	"ecodeli/internal/logx"
)

// Processor applies payment provider events to escrow rows.
type Processor struct {
	escrows  escrowRepository
	notifier Notifier
	logger   logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a Processor.
func NewProcessor(escrows escrowRepository, notifier Notifier, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{escrows: escrows, notifier: notifier, logger: logger}
	p.factory = newActionFactory(
		p.transition(domain.EscrowReleased, "Payment received", "The payment for your delivery has been captured."),
		p.transition(domain.EscrowFailed, "Payment failed", "Your payment could not be processed."),
		p.transition(domain.EscrowRefunded, "Payment refunded", "Your payment has been refunded."),
	)
	return p
}

// Handle processes a single Event. Unknown event types are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Type)
	if !ok {
		p.logger.Debug("payment event ignored", logx.String("type", e.Type))
		return nil
	}
	if strings.TrimSpace(e.PaymentID) == "" {
		p.logger.Warn("payment event without payment id", logx.String("type", e.Type))
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) transition(status domain.EscrowStatus, title, body string) actionFunc {
	return func(ctx context.Context, e Event) error {
		n, err := p.escrows.SetStatusByProviderRef(ctx, e.PaymentID, status)
		if err != nil {
			return fmt.Errorf("apply %s: %w", e.Type, err)
		}
		if n == 0 {
			return nil
		}

		p.logger.Info("escrow updated from provider event",
			logx.String("payment_id", e.PaymentID),
			logx.String("status", string(status)),
		)

		if p.notifier == nil {
			return nil
		}
		esc, err := p.escrows.GetByProviderRef(ctx, e.PaymentID)
		if err != nil || esc == nil {
			return err
		}
		if err := p.notifier.Notify(ctx, &domain.Notification{
			UserID: esc.PayerID,
			Kind:   domain.NotifyPayment,
			Title:  title,
			Body:   body,
		}); err != nil {
			p.logger.Warn("payment notification failed",
				logx.Int64("user_id", esc.PayerID),
				logx.Err(err),
			)
		}
		return nil
	}
}
