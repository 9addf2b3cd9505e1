// Package metrics exposes the Prometheus collectors of the talent service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Build results.
const (
	ResultLive     = "live"
	ResultSnapshot = "snapshot"
	ResultStatic   = "static"
	ResultError    = "error"
)

// Recorder receives the service's measurements.
type Recorder interface {
	// ObserveFetch records one upstream payload fetch.
	ObserveFetch(source string, d time.Duration, err error)
	// IncBuild counts one tree build by class and result.
	IncBuild(class, result string)
	// IncFallback counts a step down the fallback chain.
	IncFallback(class, reason string)
	// AddUnresolved counts tooltip tokens left verbatim.
	AddUnresolved(n int)
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) { m.namespace = ns }
}

// WithRegistry registers the collectors on reg instead of the default registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Manager) {
		m.registerer = reg
		m.gatherer = reg
	}
}

// WithFetchBuckets overrides the fetch latency buckets, in seconds.
func WithFetchBuckets(buckets []float64) Option {
	return func(m *Manager) { m.fetchBuckets = buckets }
}

// Manager owns the collectors.
type Manager struct {
	namespace    string
	fetchBuckets []float64
	registerer   prometheus.Registerer
	gatherer     prometheus.Gatherer

	fetchDuration *prometheus.HistogramVec
	fetchErrors   *prometheus.CounterVec
	builds        *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	unresolved    prometheus.Counter
}

var _ Recorder = (*Manager)(nil)

// NewManager creates and registers the collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:    "talents",
		fetchBuckets: prometheus.DefBuckets,
		registerer:   prometheus.DefaultRegisterer,
		gatherer:     prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registerer)

	m.fetchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Upstream payload fetch latency",
		Buckets:   m.fetchBuckets,
	}, []string{"source"})

	m.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "fetch_errors_total",
		Help:      "Upstream payload fetches that failed",
	}, []string{"source"})

	m.builds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "builds_total",
		Help:      "Talent tree builds by class and result",
	}, []string{"class", "result"})

	m.fallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "fallbacks_total",
		Help:      "Steps taken down the fallback chain by reason",
	}, []string{"class", "reason"})

	m.unresolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "unresolved_tokens_total",
		Help:      "Tooltip tokens left unresolved in rendered descriptions",
	})

	return m
}

// ObserveFetch records one upstream payload fetch.
func (m *Manager) ObserveFetch(source string, d time.Duration, err error) {
	m.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.fetchErrors.WithLabelValues(source).Inc()
	}
}

// IncBuild counts one tree build.
func (m *Manager) IncBuild(class, result string) {
	m.builds.WithLabelValues(class, result).Inc()
}

// IncFallback counts a fallback step.
func (m *Manager) IncFallback(class, reason string) {
	m.fallbacks.WithLabelValues(class, reason).Inc()
}

// AddUnresolved counts unresolved tooltip tokens.
func (m *Manager) AddUnresolved(n int) {
	if n > 0 {
		m.unresolved.Add(float64(n))
	}
}

// Handler serves the manager's registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) ObserveFetch(string, time.Duration, error) {}
func (Nop) IncBuild(string, string)                   {}
func (Nop) IncFallback(string, string)                {}
func (Nop) AddUnresolved(int)                         {}
