package bimindex

import (
	"log/slog"

	"github.com/hupe1980/bimindex/elementindex"
	"github.com/hupe1980/bimindex/keyparam"
	"github.com/hupe1980/bimindex/relindex"
	"github.com/hupe1980/bimindex/resource"
)

type options struct {
	batchSize        int
	workers          int
	progress         elementindex.ProgressFunc
	yield            func()
	table            *keyparam.Table
	index            *relindex.Index
	controller       *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Open and the package-level operations.
type Option func(*options)

// WithBatchSize sets the number of elements resolved between progress reports.
// The default is 50.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithWorkers resolves each batch with up to n goroutines.
// Output order never depends on n.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithProgress sets the callback invoked after each batch with
// (processed, total).
func WithProgress(fn func(processed, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithYield replaces the hook invoked after each batch. The default hook is
// runtime.Gosched; a host event loop can pass its own scheduler here.
func WithYield(fn func()) Option {
	return func(o *options) {
		o.yield = fn
	}
}

// WithKeyParamTable sets the key parameter pattern table.
//
// Example with a French locale pack:
//
//	f, _ := os.Open("fr.yaml")
//	table, _ := keyparam.LoadTable(f)
//	m := bimindex.Open(st, id, bimindex.WithKeyParamTable(table))
func WithKeyParamTable(t *keyparam.Table) Option {
	return func(o *options) {
		o.table = t
	}
}

// WithRelationshipIndex reuses a pre-built relationship index instead of
// building one. The index must belong to the same loaded model.
func WithRelationshipIndex(idx *relindex.Index) Option {
	return func(o *options) {
		o.index = idx
	}
}

// WithResourceController shares a worker and store-rate budget across builds.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &bimindex.BasicMetricsCollector{}
//	m := bimindex.Open(st, id, bimindex.WithMetricsCollector(metrics))
//	// ... use m ...
//	stats := metrics.GetStats()
//	fmt.Printf("Resolves: %d, Avg latency: %dns\n", stats.ResolveCount, stats.ResolveAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		batchSize:        elementindex.DefaultBatchSize,
		workers:          1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// with returns a copy of o with extra options applied.
func (o options) with(optFns []Option) options {
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// elementIndexOptions maps o onto elementindex options.
func (o *options) elementIndexOptions() []elementindex.Option {
	opts := []elementindex.Option{
		elementindex.WithBatchSize(o.batchSize),
		elementindex.WithWorkers(o.workers),
		elementindex.WithLogger(o.logger.Logger),
	}
	if o.progress != nil {
		opts = append(opts, elementindex.WithProgress(o.progress))
	}
	if o.yield != nil {
		opts = append(opts, elementindex.WithYield(o.yield))
	}
	if o.table != nil {
		opts = append(opts, elementindex.WithTable(o.table))
	}
	if o.index != nil {
		opts = append(opts, elementindex.WithIndex(o.index))
	}
	if o.controller != nil {
		opts = append(opts, elementindex.WithController(o.controller))
	}
	return opts
}
