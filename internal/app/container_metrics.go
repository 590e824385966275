package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"ecodeli/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal    prometheus.Counter     `name:"rate_limit_exceeded_total"`
	GatewayRetriesTotal       prometheus.Counter     `name:"payment_gateway_retries_total"`
	NotificationFailuresTotal prometheus.Counter     `name:"notification_publish_failures_total"`
	ProcedureResultsTotal     *prometheus.CounterVec `name:"rpc_procedure_results_total"`
	CodeValidationsTotal      *prometheus.CounterVec `name:"delivery_code_validations_total"`
}

// provideMetrics registers the service collectors with the default registerer.
// A collector registered earlier is reused.
func provideMetrics() (metricsOut, error) {
	var out metricsOut
	var err error

	if out.RateLimitExceededTotal, err = register("rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.GatewayRetriesTotal, err = register("payment_gateway_retries_total", metrics.NewGatewayRetriesTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.NotificationFailuresTotal, err = register("notification_publish_failures_total", metrics.NewNotificationPublishFailuresTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.ProcedureResultsTotal, err = register("rpc_procedure_results_total", metrics.NewProcedureResultsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.CodeValidationsTotal, err = register("delivery_code_validations_total", metrics.NewCodeValidationsTotal()); err != nil {
		return metricsOut{}, err
	}
	return out, nil
}

func register[C prometheus.Collector](name string, c C) (C, error) {
	err := prometheus.DefaultRegisterer.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, fmt.Errorf("register %s: %w", name, err)
}
