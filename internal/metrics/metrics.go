package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by the payment gateway
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_gateway_retries_total",
		Help: "Total number of retry attempts performed by the payment gateway",
	})
}

// NewProcedureResultsTotal counts procedure calls by name and result code.
func NewProcedureResultsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rpc_procedure_results_total",
		Help: "Total number of procedure calls by procedure and result code",
	}, []string{"procedure", "code"})
}

// NewCodeValidationsTotal counts delivery code checks by outcome (ok, mismatch, malformed).
func NewCodeValidationsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_code_validations_total",
		Help: "Total number of delivery validation code checks by outcome",
	}, []string{"outcome"})
}

// NewNotificationPublishFailuresTotal counts notifications persisted but not published to the broker.
func NewNotificationPublishFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_publish_failures_total",
		Help: "Total number of notifications that could not be published to the broker",
	})
}
