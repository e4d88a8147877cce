package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics observes authentication attempts and remote calls.
type Metrics interface {
	RecordAttempt(outcome, reason string)
	ObserveRemoteCall(operation string, elapsed time.Duration, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordAttempt(string, string)                   {}
func (noopMetrics) ObserveRemoteCall(string, time.Duration, error) {}

// NormalizeMetrics returns a no-op implementation for nil.
func NormalizeMetrics(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

// PrometheusMetrics implements Metrics with Prometheus collectors.
type PrometheusMetrics struct {
	attempts *prometheus.CounterVec
	remote   *prometheus.HistogramVec
}

// NewPrometheusMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered.
func NewPrometheusMetrics(namespace string, reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fogbugz_auth_attempts_total",
			Help:      "Authentication attempts handled by the FogBugz bridge, by outcome and reject reason.",
		}, []string{"outcome", "reason"}),
		remote: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fogbugz_auth_remote_duration_seconds",
			Help:      "Duration of calls to the FogBugz server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.attempts, m.remote} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

func (m *PrometheusMetrics) RecordAttempt(outcome, reason string) {
	m.attempts.WithLabelValues(outcome, reason).Inc()
}

func (m *PrometheusMetrics) ObserveRemoteCall(operation string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.remote.WithLabelValues(operation, status).Observe(elapsed.Seconds())
}

// Attempts exposes the attempts counter, mostly for tests and dashboards
// wired in process.
func (m *PrometheusMetrics) Attempts() *prometheus.CounterVec {
	return m.attempts
}
