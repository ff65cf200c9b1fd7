// Package metrics records service operation counters and latencies.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics is implemented by every metrics backend used by the services.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// PrometheusMetrics exports operation metrics through a prometheus registry.
type PrometheusMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheus registers the operation collectors on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*PrometheusMetrics, error) {
	labels := []string{"service", "operation"}
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Number of service operations attempted.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Number of service operations that completed.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Number of service operations that returned an error.",
		}, labels),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, labels),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.successes, m.failures, m.durations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(service, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(service, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(service, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.durations.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// NoopMetrics discards everything. Used in tests and when metrics are disabled.
type NoopMetrics struct{}

func NewNoop() *NoopMetrics { return &NoopMetrics{} }

func (*NoopMetrics) RecordOperationAttempt(context.Context, string, string)                 {}
func (*NoopMetrics) RecordOperationSuccess(context.Context, string, string)                 {}
func (*NoopMetrics) RecordOperationFailure(context.Context, string, string)                 {}
func (*NoopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}

var (
	_ OperationMetrics = (*PrometheusMetrics)(nil)
	_ OperationMetrics = (*NoopMetrics)(nil)
)
