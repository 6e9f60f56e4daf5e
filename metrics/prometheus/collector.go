// Package prometheus exports bimindex operation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, err := bimprom.New(reg)
//	if err != nil {
//	    return err
//	}
//	m := bimindex.Open(st, id, bimindex.WithMetricsCollector(mc))
package prometheus

import (
	"errors"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/bimindex"
)

// DefaultNamespace is the metric namespace used unless overridden.
const DefaultNamespace = "bimindex"

// Options configures a Collector.
type Options struct {
	Namespace      string
	LatencyBuckets []float64
	BatchBuckets   []float64
}

// Option mutates Options.
type Option func(o *Options)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(o *Options) {
		o.Namespace = ns
	}
}

// WithLatencyBuckets sets the histogram buckets of operation latencies, in seconds.
func WithLatencyBuckets(b []float64) Option {
	return func(o *Options) {
		o.LatencyBuckets = b
	}
}

// WithBatchBuckets sets the histogram buckets of batch sizes, in elements.
func WithBatchBuckets(b []float64) Option {
	return func(o *Options) {
		o.BatchBuckets = b
	}
}

// Collector implements bimindex.MetricsCollector.
type Collector struct {
	opLatency   *prom.HistogramVec // op, status
	relRecords  prom.Counter
	resolves    *prom.CounterVec // result
	batchSize   prom.Histogram
	elements    *prom.CounterVec // outcome
	searchHits  prom.Histogram
	elementRuns *prom.CounterVec // status
}

var _ bimindex.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prom.Registerer, opts ...Option) (*Collector, error) {
	o := Options{
		Namespace:      DefaultNamespace,
		LatencyBuckets: prom.DefBuckets,
		BatchBuckets:   prom.ExponentialBuckets(1, 2, 12),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Namespace == "" {
		return nil, errors.New("prometheus: namespace must not be empty")
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: o.Namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of indexing operations",
			Buckets:   o.LatencyBuckets,
		}, []string{"op", "status"}),
		relRecords: prom.NewCounter(prom.CounterOpts{
			Namespace: o.Namespace,
			Name:      "relationship_records_total",
			Help:      "Relationship records scanned by index builds",
		}),
		resolves: prom.NewCounterVec(prom.CounterOpts{
			Namespace: o.Namespace,
			Name:      "resolves_total",
			Help:      "Single element resolutions by result",
		}, []string{"result"}),
		batchSize: prom.NewHistogram(prom.HistogramOpts{
			Namespace: o.Namespace,
			Name:      "batch_size",
			Help:      "Element IDs per index batch",
			Buckets:   o.BatchBuckets,
		}),
		elements: prom.NewCounterVec(prom.CounterOpts{
			Namespace: o.Namespace,
			Name:      "batch_elements_total",
			Help:      "Elements handled by index batches by outcome",
		}, []string{"outcome"}),
		searchHits: prom.NewHistogram(prom.HistogramOpts{
			Namespace: o.Namespace,
			Name:      "search_results",
			Help:      "Entries returned per search",
			Buckets:   prom.ExponentialBuckets(1, 4, 10),
		}),
		elementRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: o.Namespace,
			Name:      "element_index_builds_total",
			Help:      "Element index builds by status",
		}, []string{"status"}),
	}

	for _, col := range []prom.Collector{
		c.opLatency, c.relRecords, c.resolves, c.batchSize, c.elements, c.searchHits, c.elementRuns,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(reg prom.Registerer, opts ...Option) *Collector {
	c, err := New(reg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordRelationshipIndex implements bimindex.MetricsCollector.
func (c *Collector) RecordRelationshipIndex(records int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("relationship_index", status(err)).Observe(d.Seconds())
	c.relRecords.Add(float64(records))
}

// RecordResolve implements bimindex.MetricsCollector.
func (c *Collector) RecordResolve(d time.Duration, found bool, err error) {
	c.opLatency.WithLabelValues("resolve", status(err)).Observe(d.Seconds())
	result := "found"
	switch {
	case err != nil:
		result = "error"
	case !found:
		result = "missing"
	}
	c.resolves.WithLabelValues(result).Inc()
}

// RecordBatch implements bimindex.MetricsCollector.
func (c *Collector) RecordBatch(size, skipped int, d time.Duration) {
	c.opLatency.WithLabelValues("batch", "success").Observe(d.Seconds())
	c.batchSize.Observe(float64(size))
	c.elements.WithLabelValues("indexed").Add(float64(size - skipped))
	c.elements.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordElementIndex implements bimindex.MetricsCollector.
func (c *Collector) RecordElementIndex(total, indexed int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("element_index", status(err)).Observe(d.Seconds())
	c.elementRuns.WithLabelValues(status(err)).Inc()
}

// RecordSearch implements bimindex.MetricsCollector.
func (c *Collector) RecordSearch(results int, d time.Duration) {
	c.opLatency.WithLabelValues("search", "success").Observe(d.Seconds())
	c.searchHits.Observe(float64(results))
}
