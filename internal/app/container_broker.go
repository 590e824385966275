package app

import (
	"context"

	"ecodeli/internal/config"
	"ecodeli/internal/logx"
	"ecodeli/internal/transport/rabbitmq"
)

// brokerPublisher is the notification fan-out connection.
type brokerPublisher interface {
	Publish(ctx context.Context, key string, body []byte) error
	Close() error
}

var dialRabbit = func(url, exchange string) (brokerPublisher, error) {
	return rabbitmq.Dial(url, exchange)
}

// newPublisher dials RabbitMQ. Without RABBITMQ_URL notifications stay in the inbox only.
func newPublisher(cfg *config.Config, logger logx.Logger) (brokerPublisher, error) {
	if cfg.RabbitMQ.URL == "" {
		logger.Warn("rabbitmq not configured, notifications are not fanned out")
		return rabbitmq.Nop{}, nil
	}
	p, err := dialRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	if err != nil {
		return nil, err
	}
	logger.Info("rabbitmq connected", logx.String("exchange", cfg.RabbitMQ.Exchange))
	return p, nil
}
