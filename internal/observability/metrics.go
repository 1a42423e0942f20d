// Package observability provides Prometheus instrumentation
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the surveillance engine.
type Metrics struct {
	ReportsSubmitted      prometheus.Counter
	ObservationsSubmitted prometheus.Counter
	AlertsCreated         *prometheus.CounterVec // label: type
	AlertsSuppressed      *prometheus.CounterVec // label: type
	AnalysisRequests      *prometheus.CounterVec // label: outcome={success,degraded}
	Notifications         *prometheus.CounterVec // label: outcome={sent,failed}
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsSubmitted,
		m.ObservationsSubmitted,
		m.AlertsCreated,
		m.AlertsSuppressed,
		m.AnalysisRequests,
		m.Notifications,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "health_watch",
			Name:      "reports_submitted_total",
			Help:      "Total health reports accepted.",
		}),
		ObservationsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "health_watch",
			Name:      "observations_submitted_total",
			Help:      "Total water-quality observations accepted.",
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_watch",
			Name:      "alerts_created_total",
			Help:      "Alerts persisted, by alert type.",
		}, []string{"type"}),
		AlertsSuppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_watch",
			Name:      "alerts_suppressed_total",
			Help:      "Duplicate alerts suppressed by the dedup check, by alert type.",
		}, []string{"type"}),
		AnalysisRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_watch",
			Name:      "analysis_requests_total",
			Help:      "Outbreak analysis calls by outcome.",
		}, []string{"outcome"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "health_watch",
			Name:      "notifications_total",
			Help:      "Outbound alert notifications by outcome.",
		}, []string{"outcome"}),
	}
}
