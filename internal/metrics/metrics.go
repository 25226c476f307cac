package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/stats"
)

// Metrics holds the Prometheus collectors for the analysis server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Analysis metrics
	Analyses            *prometheus.CounterVec
	BootstrapIterations prometheus.Counter
	BootstrapDuration   prometheus.Histogram
}

// New registers every collector on a fresh registry so tests and servers
// never share global state.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abtest_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abtest_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),

		Analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abtest_analyses_total",
				Help: "Total number of statistical analyses by test and outcome",
			},
			[]string{"test", "outcome"},
		),
		BootstrapIterations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "abtest_bootstrap_iterations_total",
				Help: "Total number of bootstrap resamples drawn",
			},
		),
		BootstrapDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "abtest_bootstrap_duration_seconds",
				Help:    "Bootstrap run duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
	}
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest records one HTTP request.
func (m *Metrics) RecordRequest(method, route, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAnalysis counts one analysis under the outcome implied by err.
func (m *Metrics) RecordAnalysis(test string, err error) {
	m.Analyses.WithLabelValues(test, Outcome(err)).Inc()
}

// RecordBootstrap records a completed bootstrap run.
func (m *Metrics) RecordBootstrap(iterations int, duration time.Duration) {
	m.BootstrapIterations.Add(float64(iterations))
	m.BootstrapDuration.Observe(duration.Seconds())
}

// Outcome classifies an analysis error as "ok", "invalid" or "error".
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, stats.ErrInvalidSample), errors.Is(err, stats.ErrInvalidConfiguration):
		return "invalid"
	default:
		return "error"
	}
}
