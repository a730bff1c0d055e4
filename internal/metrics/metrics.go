package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Metrics holds the dashboard collectors. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal   *prometheus.CounterVec
	AnalysisSeconds prometheus.Histogram
	VerdictsTotal   *prometheus.CounterVec
	AlertsTotal     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cybersentinel_analyses_total",
			Help: "analyses requested, by outcome",
		}, []string{"outcome"}),
		AnalysisSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cybersentinel_analysis_duration_seconds",
			Help:    "backend round trip for one analysis",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}),
		VerdictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cybersentinel_verdicts_total",
			Help: "successful analyses, by reputation label",
		}, []string{"label"}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cybersentinel_alerts_total",
			Help: "discord alerts, by outcome",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.AnalysesTotal, m.AnalysisSeconds, m.VerdictsTotal, m.AlertsTotal)
	return m
}

// ObserveAnalysis records one finished backend call.
func (m *Metrics) ObserveAnalysis(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	if outcome != OutcomeRejected {
		m.AnalysisSeconds.Observe(took.Seconds())
	}
}

func (m *Metrics) ObserveVerdict(label string) {
	if m == nil {
		return
	}
	if label == "" {
		label = "unknown"
	}
	m.VerdictsTotal.WithLabelValues(label).Inc()
}

func (m *Metrics) ObserveAlert(outcome string) {
	if m == nil {
		return
	}
	m.AlertsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
