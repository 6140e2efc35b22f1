package rx

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BufferMetrics holds prometheus collectors describing the work of buffering operators.
// A nil *BufferMetrics is valid and records nothing.
// A single instance can be shared by many operators and subscriptions.
type BufferMetrics struct {
	batches   *prometheus.CounterVec
	batchSize prometheus.Histogram
	discarded *prometheus.CounterVec
}

// NewBufferMetrics creates the collectors and registers them with registerer.
// If registerer is nil, metrics are collected but not registered.
func NewBufferMetrics(registerer prometheus.Registerer, namespace, subsystem string) *BufferMetrics {
	m := BufferMetrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batches_total",
			Help:      "Number of emitted batches by the reason the batch was closed",
		}, []string{"reason"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_size",
			Help:      "Number of items in emitted batches",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "discarded_items_total",
			Help:      "Number of buffered items dropped without emission",
		}, []string{"reason"}),
	}

	if registerer != nil {
		registerer = prometheus.WrapRegistererWith(
			prometheus.Labels{"component": "rx"},
			registerer,
		)
		registerer.MustRegister(
			m.batches,
			m.batchSize,
			m.discarded,
		)
	}

	return &m
}

func (m *BufferMetrics) observeBatch(reason string, size int) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(reason).Inc()
	m.batchSize.Observe(float64(size))
}

func (m *BufferMetrics) observeDiscard(reason string, n int) {
	if m == nil {
		return
	}
	m.discarded.WithLabelValues(reason).Add(float64(n))
}
