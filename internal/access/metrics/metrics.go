// Package metrics holds the decision engine's Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts decisions per tier and outcome, observes evaluation latency,
// and tracks analyzer degradation. A nil *Metrics is valid and records
// nothing, so unit tests can skip registration entirely.
type Metrics struct {
	decisions        *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	analyzerFailures prometheus.Counter
}

// New creates and registers the decision metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medtrust_access_decisions_total",
			Help: "Access decisions by tier and outcome.",
		}, []string{"tier", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medtrust_access_decision_duration_seconds",
			Help:    "Decision evaluation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tier"}),
		analyzerFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "medtrust_access_analyzer_failures_total",
			Help: "Justification analyzer calls that errored or timed out.",
		}),
	}
}

// ObserveDecision records one completed evaluation.
func (m *Metrics) ObserveDecision(tier, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(tier, outcome).Inc()
	m.duration.WithLabelValues(tier).Observe(elapsed.Seconds())
}

// AnalyzerFailure records one degraded analyzer call.
func (m *Metrics) AnalyzerFailure() {
	if m == nil {
		return
	}
	m.analyzerFailures.Inc()
}
