// Package metrics exposes the service's Prometheus collectors on a private
// registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "insights"

// Scoring kinds
const (
	KindReliability       = "reliability"
	KindRisk              = "risk"
	KindLeaderPerformance = "leader_performance"
)

// Outcomes recorded for each scoring operation
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Manager owns the registry and every collector. A nil *Manager is valid and
// records nothing.
type Manager struct {
	registry *prometheus.Registry

	scoringOperations *prometheus.CounterVec
	scoringDuration   *prometheus.HistogramVec
	batchSize         *prometheus.HistogramVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a manager backed by a fresh registry that also carries
// the Go runtime and process collectors.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auto := promauto.With(reg)
	m := &Manager{registry: reg}

	m.scoringOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "operations_total",
		Help:      "Scoring operations by kind and outcome.",
	}, []string{"kind", "outcome"})

	m.scoringDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scoring",
		Name:      "duration_seconds",
		Help:      "Duration of single scoring operations including persistence.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"kind"})

	m.batchSize = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_size",
		Help:      "Number of ids submitted per batch request.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
	}, []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"route", "method", "status"})

	return m
}

// Registry returns the underlying registry
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveScoring records one single-item scoring operation
func (m *Manager) ObserveScoring(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.scoringOperations.WithLabelValues(kind, outcome).Inc()
	m.scoringDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveBatch records the size of a batch request
func (m *Manager) ObserveBatch(kind string, size int) {
	if m == nil {
		return
	}
	m.batchSize.WithLabelValues(kind).Observe(float64(size))
}

// ObserveHTTP records one finished HTTP request
func (m *Manager) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, code).Observe(elapsed.Seconds())
}
