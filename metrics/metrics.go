// Package metrics exposes service counters to prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/anyswap/XRPL-Custody/ledger"
)

const namespace = "xrpl_custody"

// Metrics are the service collectors
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	reconciled *prometheus.CounterVec
	blacklist  prometheus.Gauge
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// New creates collectors registered on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "operations_total",
			Help:      "Guarded operations by outcome: ok or the error kind.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "operation_seconds",
			Help:      "Wall time of guarded operations including the submission wait.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		reconciled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciler",
			Name:      "offers_total",
			Help:      "Reconciled offer statuses by state.",
		}, []string{"state"}),
		blacklist: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "blacklist_size",
			Help:      "Number of blacklisted addresses in the active registry.",
		}),
	}
	reg.MustRegister(m.operations, m.duration, m.reconciled, m.blacklist)
	return m
}

// Default returns the collectors registered on the default registry
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// Outcome labels err by its kind, "ok" when nil
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return ledger.KindOf(err).String()
}

// ObserveOperation records one finished operation
func (m *Metrics) ObserveOperation(operation string, started time.Time, err error) {
	m.operations.WithLabelValues(operation, Outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveReconcile records one reconciled offer state
func (m *Metrics) ObserveReconcile(state string) {
	m.reconciled.WithLabelValues(state).Inc()
}

// SetBlacklistSize records the active blacklist size
func (m *Metrics) SetBlacklistSize(n int) {
	m.blacklist.Set(float64(n))
}
