package cache

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Cacher[struct{}] = (*Metered[struct{}])(nil)

// Result label values for get metrics.
const (
	resultHit  = "hit"
	resultMiss = "miss"
)

// cacheMetrics holds the collectors for one namespace.
type cacheMetrics struct {
	getCount    *prometheus.CounterVec
	getDuration *prometheus.HistogramVec
	putCount    prometheus.Counter
	putDuration prometheus.Histogram
	clearCount  prometheus.Counter
}

func newMetrics(namespace string, reg prometheus.Registerer) (*cacheMetrics, error) {
	labels := prometheus.Labels{"namespace": namespace}
	m := &cacheMetrics{
		getCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "fscache",
			Name:        "get_total",
			Help:        "Total number of cache lookups by result",
			ConstLabels: labels,
		}, []string{"result"}),
		getDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "fscache",
			Name:        "get_duration_seconds",
			Help:        "Cache lookup latency in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"result"}),
		putCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "fscache",
			Name:        "put_total",
			Help:        "Total number of cache writes",
			ConstLabels: labels,
		}),
		putDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "fscache",
			Name:        "put_duration_seconds",
			Help:        "Cache write latency in seconds, including eviction",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		clearCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "fscache",
			Name:        "clear_total",
			Help:        "Total number of cache clears",
			ConstLabels: labels,
		}),
	}

	if reg == nil {
		return m, nil
	}
	var errs []error
	for _, c := range []prometheus.Collector{m.getCount, m.getDuration, m.putCount, m.putDuration, m.clearCount} {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return m, errors.Join(errs...)
}

// Metered wraps a Cacher with prometheus metrics.
type Metered[T any] struct {
	Cacher[T]

	metrics *cacheMetrics
}

// NewMetered wraps c and registers its collectors on reg. The wrapper is
// usable even when registration fails; the error is returned for the caller
// to log.
func NewMetered[T any](namespace string, reg prometheus.Registerer, c Cacher[T]) (*Metered[T], error) {
	metrics, err := newMetrics(namespace, reg)
	return &Metered[T]{
		Cacher:  c,
		metrics: metrics,
	}, err
}

// Get records the lookup result and latency.
func (m *Metered[T]) Get(key string) (T, bool) {
	start := time.Now()
	value, ok := m.Cacher.Get(key)
	elapsed := time.Since(start)

	result := resultMiss
	if ok {
		result = resultHit
	}
	m.metrics.getCount.WithLabelValues(result).Inc()
	m.metrics.getDuration.WithLabelValues(result).Observe(elapsed.Seconds())

	return value, ok
}

// Put records the write count and latency.
func (m *Metered[T]) Put(key string, value T) {
	start := time.Now()
	m.Cacher.Put(key, value)
	m.metrics.putDuration.Observe(time.Since(start).Seconds())
	m.metrics.putCount.Inc()
}

// Clear records the clear.
func (m *Metered[T]) Clear() {
	m.Cacher.Clear()
	m.metrics.clearCount.Inc()
}
