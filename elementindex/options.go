package elementindex

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/bimindex/keyparam"
	"github.com/hupe1980/bimindex/relindex"
	"github.com/hupe1980/bimindex/resource"
)

// DefaultBatchSize is the number of elements resolved between two progress reports.
const DefaultBatchSize = 50

// ProgressFunc receives the number of processed elements and the total after each batch.
type ProgressFunc func(processed, total int)

// Options configures an index build.
type Options struct {
	// BatchSize is the number of elements per batch. Must be positive.
	BatchSize int

	// Workers is the number of goroutines resolving one batch.
	// Values below 2 resolve sequentially.
	Workers int

	// Controller bounds workers and store access across builds. Optional.
	Controller *resource.Controller

	// Progress is called after each batch. Optional.
	Progress ProgressFunc

	// Yield is called after each batch, after Progress. Defaults to runtime.Gosched.
	Yield func()

	// Index is a pre-built relationship index. When nil, one is built up front.
	Index *relindex.Index

	// Table is the key parameter table. Defaults to keyparam.Default().
	Table *keyparam.Table

	// Logger receives batch and skip diagnostics.
	Logger *slog.Logger
}

// Option configures Options.
type Option func(o *Options)

// WithBatchSize sets the batch size.
func WithBatchSize(n int) Option {
	return func(o *Options) {
		o.BatchSize = n
	}
}

// WithWorkers sets the number of resolving goroutines per batch.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithController sets the shared resource controller.
func WithController(rc *resource.Controller) Option {
	return func(o *Options) {
		o.Controller = rc
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Options) {
		o.Progress = fn
	}
}

// WithYield replaces the cooperative yield hook.
func WithYield(fn func()) Option {
	return func(o *Options) {
		if fn != nil {
			o.Yield = fn
		}
	}
}

// WithIndex reuses an already built relationship index.
func WithIndex(idx *relindex.Index) Option {
	return func(o *Options) {
		o.Index = idx
	}
}

// WithTable sets the key parameter table.
func WithTable(t *keyparam.Table) Option {
	return func(o *Options) {
		o.Table = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func defaultOptions() Options {
	return Options{
		BatchSize: DefaultBatchSize,
		Workers:   1,
		Yield:     runtime.Gosched,
		Logger:    slog.New(slog.DiscardHandler),
	}
}
