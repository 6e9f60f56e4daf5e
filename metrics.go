package bimindex

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; a Prometheus
// implementation lives in metrics/prometheus.
type MetricsCollector interface {
	// RecordRelationshipIndex is called after each relationship index build.
	// records is the number of relationship records scanned.
	RecordRelationshipIndex(records int, duration time.Duration, err error)

	// RecordResolve is called after each single element resolution.
	// found is false when the element record does not exist.
	RecordResolve(duration time.Duration, found bool, err error)

	// RecordBatch is called after each element index batch.
	// size is the number of IDs in the batch, skipped the number without an entry.
	RecordBatch(size, skipped int, duration time.Duration)

	// RecordElementIndex is called after each element index build.
	RecordElementIndex(total, indexed int, duration time.Duration, err error)

	// RecordSearch is called after each search. results is the number of matches.
	RecordSearch(results int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRelationshipIndex(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordResolve(time.Duration, bool, error)          {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration)               {}
func (NoopMetricsCollector) RecordElementIndex(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration)                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RelIndexCount      atomic.Int64
	RelIndexErrors     atomic.Int64
	RelIndexRecords    atomic.Int64
	ResolveCount       atomic.Int64
	ResolveMisses      atomic.Int64
	ResolveErrors      atomic.Int64
	ResolveTotalNanos  atomic.Int64
	BatchCount         atomic.Int64
	BatchItems         atomic.Int64
	BatchSkipped       atomic.Int64
	ElementIndexCount  atomic.Int64
	ElementIndexErrors atomic.Int64
	ElementIndexNanos  atomic.Int64
	SearchCount        atomic.Int64
	SearchResults      atomic.Int64
	SearchTotalNanos   atomic.Int64
}

// RecordRelationshipIndex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelationshipIndex(records int, duration time.Duration, err error) {
	b.RelIndexCount.Add(1)
	b.RelIndexRecords.Add(int64(records))
	if err != nil {
		b.RelIndexErrors.Add(1)
	}
}

// RecordResolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResolve(duration time.Duration, found bool, err error) {
	b.ResolveCount.Add(1)
	b.ResolveTotalNanos.Add(duration.Nanoseconds())
	switch {
	case err != nil:
		b.ResolveErrors.Add(1)
	case !found:
		b.ResolveMisses.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(size, skipped int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(size))
	b.BatchSkipped.Add(int64(skipped))
}

// RecordElementIndex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordElementIndex(total, indexed int, duration time.Duration, err error) {
	b.ElementIndexCount.Add(1)
	b.ElementIndexNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ElementIndexErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(results int, duration time.Duration) {
	b.SearchCount.Add(1)
	b.SearchResults.Add(int64(results))
	b.SearchTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RelIndexCount:      b.RelIndexCount.Load(),
		RelIndexErrors:     b.RelIndexErrors.Load(),
		RelIndexRecords:    b.RelIndexRecords.Load(),
		ResolveCount:       b.ResolveCount.Load(),
		ResolveMisses:      b.ResolveMisses.Load(),
		ResolveErrors:      b.ResolveErrors.Load(),
		ResolveAvgNanos:    avg(b.ResolveTotalNanos.Load(), b.ResolveCount.Load()),
		BatchCount:         b.BatchCount.Load(),
		BatchItems:         b.BatchItems.Load(),
		BatchSkipped:       b.BatchSkipped.Load(),
		ElementIndexCount:  b.ElementIndexCount.Load(),
		ElementIndexErrors: b.ElementIndexErrors.Load(),
		ElementIndexNanos:  b.ElementIndexNanos.Load(),
		SearchCount:        b.SearchCount.Load(),
		SearchResults:      b.SearchResults.Load(),
		SearchAvgNanos:     avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RelIndexCount      int64
	RelIndexErrors     int64
	RelIndexRecords    int64
	ResolveCount       int64
	ResolveMisses      int64
	ResolveErrors      int64
	ResolveAvgNanos    int64
	BatchCount         int64
	BatchItems         int64
	BatchSkipped       int64
	ElementIndexCount  int64
	ElementIndexErrors int64
	ElementIndexNanos  int64
	SearchCount        int64
	SearchResults      int64
	SearchAvgNanos     int64
}
