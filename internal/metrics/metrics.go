// Package metrics exposes generation counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Attempts       *prometheus.CounterVec
	Outcomes       *prometheus.CounterVec
	Corrections    *prometheus.CounterVec
	BackendLatency *prometheus.HistogramVec
	AuditAppends   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carepost_generation_attempts_total",
				Help: "Generation attempts by validation result",
			},
			[]string{"result"},
		),
		Outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carepost_generation_outcomes_total",
				Help: "Finished generation loops by terminal state",
			},
			[]string{"state"},
		),
		Corrections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carepost_corrector_runs_total",
				Help: "Keyword corrector runs by whether the body changed",
			},
			[]string{"changed"},
		),
		BackendLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carepost_backend_call_duration_seconds",
				Help:    "Duration of generative backend calls in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
			},
			[]string{"status"},
		),
		AuditAppends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carepost_audit_appends_total",
				Help: "Audit row appends by result",
			},
			[]string{"result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// AttemptFinished counts one validated attempt.
func (m *Metrics) AttemptFinished(_ int, failures []string) {
	m.Attempts.WithLabelValues(result(len(failures) == 0)).Inc()
}

// LoopFinished counts a loop reaching state.
func (m *Metrics) LoopFinished(state string) {
	m.Outcomes.WithLabelValues(state).Inc()
}

// CorrectorApplied counts a corrector run.
func (m *Metrics) CorrectorApplied(changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	m.Corrections.WithLabelValues(label).Inc()
}

// BackendCalled observes one backend call.
func (m *Metrics) BackendCalled(elapsed time.Duration, err error) {
	m.BackendLatency.WithLabelValues(result(err == nil)).Observe(elapsed.Seconds())
}

// AuditAppended counts an audit append.
func (m *Metrics) AuditAppended(err error) {
	m.AuditAppends.WithLabelValues(result(err == nil)).Inc()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}

	return "failed"
}
