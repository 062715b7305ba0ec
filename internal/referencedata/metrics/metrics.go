package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

// Snapshot sources.
const (
	SourceCache = "cache"
	SourceStore = "store"
)

// Metrics provides observability for the reference-data module.
type Metrics struct {
	// Catalogue cache lookups by backend and result
	CacheLookups *prometheus.CounterVec

	// Snapshot loads by source
	SnapshotLoadDuration *prometheus.HistogramVec

	// Reason path resolutions and write-path validations by outcome
	Resolutions *prometheus.CounterVec

	// Cache invalidations by trigger ("admin", "event")
	Invalidations *prometheus.CounterVec

	// 1 while the named breaker is open
	BreakerOpen *prometheus.GaugeVec
}

// New creates a new Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers on reg; tests pass a fresh prometheus.Registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "absences_catalogue_cache_lookups_total",
			Help: "Catalogue cache lookups by backend and result",
		}, []string{"backend", "result"}),

		SnapshotLoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "absences_catalogue_load_duration_seconds",
			Help:    "Duration of catalogue snapshot loads by source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}),

		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "absences_categorisation_resolutions_total",
			Help: "Categorisation resolutions by operation and outcome",
		}, []string{"operation", "outcome"}),

		Invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "absences_catalogue_invalidations_total",
			Help: "Catalogue cache invalidations by trigger",
		}, []string{"trigger"}),

		BreakerOpen: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "absences_circuit_breaker_open",
			Help: "Whether the named circuit breaker is open (1) or closed (0)",
		}, []string{"name"}),
	}
}

// IncCacheLookup records a cache lookup.
func (m *Metrics) IncCacheLookup(backend, result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(backend, result).Inc()
	}
}

// ObserveSnapshotLoad records how long it took to obtain a snapshot.
func (m *Metrics) ObserveSnapshotLoad(source string, d time.Duration) {
	if m != nil {
		m.SnapshotLoadDuration.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncResolution records a resolution outcome.
func (m *Metrics) IncResolution(operation, outcome string) {
	if m != nil {
		m.Resolutions.WithLabelValues(operation, outcome).Inc()
	}
}

// IncInvalidation records a cache invalidation.
func (m *Metrics) IncInvalidation(trigger string) {
	if m != nil {
		m.Invalidations.WithLabelValues(trigger).Inc()
	}
}

// SetBreakerOpen tracks the state of a circuit breaker.
func (m *Metrics) SetBreakerOpen(name string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.BreakerOpen.WithLabelValues(name).Set(v)
}
