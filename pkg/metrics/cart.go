package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Restore outcomes reported by RecordRestore.
const (
	RestoreHit   = "hit"
	RestoreEmpty = "empty"
	RestoreError = "error"
)

// CartMetrics records cart store activity. A nil receiver is a no-op.
type CartMetrics struct {
	mutations       *prometheus.CounterVec
	persistDuration *prometheus.HistogramVec
	persistFailures *prometheus.CounterVec
	restores        *prometheus.CounterVec
	degraded        prometheus.Counter
	evicted         prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	persistDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_persist_duration_seconds",
		Help:    "Duration of cart snapshot writes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart snapshot writes that failed, by backend.",
	}, []string{"backend"})
	restores := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_restores_total",
		Help: "Cart snapshot restores, by outcome.",
	}, []string{"outcome"})
	degraded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_stores_degraded_total",
		Help: "Cart stores that fell back to memory-only operation.",
	})
	evicted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_stores_evicted_total",
		Help: "Open cart stores dropped from the session cache.",
	})
	reg.MustRegister(mutations, persistDuration, persistFailures, restores, degraded, evicted)
	return &CartMetrics{
		mutations:       mutations,
		persistDuration: persistDuration,
		persistFailures: persistFailures,
		restores:        restores,
		degraded:        degraded,
		evicted:         evicted,
	}
}

// IncMutation counts one applied mutation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObservePersist records a snapshot write.
func (c *CartMetrics) ObservePersist(backend string, duration time.Duration) {
	if c == nil || c.persistDuration == nil {
		return
	}
	c.persistDuration.WithLabelValues(normalizeLabel(backend)).Observe(duration.Seconds())
}

// IncPersistFailure counts a failed snapshot write.
func (c *CartMetrics) IncPersistFailure(backend string) {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.WithLabelValues(normalizeLabel(backend)).Inc()
}

// RecordRestore counts a restore attempt by outcome.
func (c *CartMetrics) RecordRestore(outcome string) {
	if c == nil || c.restores == nil {
		return
	}
	c.restores.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncDegraded counts a store switching to memory-only mode.
func (c *CartMetrics) IncDegraded() {
	if c == nil || c.degraded == nil {
		return
	}
	c.degraded.Inc()
}

// IncStoreEvicted counts a session store dropped from the registry cache.
func (c *CartMetrics) IncStoreEvicted() {
	if c == nil || c.evicted == nil {
		return
	}
	c.evicted.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
