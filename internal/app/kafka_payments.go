package app

import (
	"context"
	"errors"

	"go.uber.org/dig"

	"ecodeli/internal/apperr"
	"ecodeli/internal/config"
	"ecodeli/internal/logx"
	"ecodeli/internal/service/payment"
	"ecodeli/internal/transport/kafka"
)

type paymentEventHandler interface {
	Handle(ctx context.Context, e payment.Event) error
}

// makePaymentsKafka adapts the processor to the consumer. Invalid or unknown
// payments are skipped; anything else is retried.
func makePaymentsKafka(p paymentEventHandler) kafka.HandleFunc {
	return func(ctx context.Context, event payment.Event) error {
		err := p.Handle(ctx, event)
		if err == nil {
			return nil
		}
		if errors.Is(err, apperr.ErrInvalid) || errors.Is(err, apperr.ErrNotFound) {
			return kafka.Permanent(err)
		}
		return err
	}
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config, logger logx.Logger, p *payment.Processor) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.PaymentsTopic, makePaymentsKafka(p))
		},
	)
}
