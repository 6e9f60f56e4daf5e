// Package elementindex builds the flattened per-element index used for
// filtering, aggregation and search.
//
// Elements are resolved in fixed-size batches. After each batch the progress
// callback runs and the builder yields; this is the only point where a build
// suspends. Cancellation is observed between batches and discards the partial
// result.
package elementindex

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/relindex"
	"github.com/hupe1980/bimindex/resolver"
	"github.com/hupe1980/bimindex/resource"
	"github.com/hupe1980/bimindex/store"
)

// ErrInvalidBatchSize is returned when the batch size is not positive.
var ErrInvalidBatchSize = errors.New("elementindex: batch size must be positive")

// Batch is the result of one batch.
type Batch struct {
	// Entries are the indexed elements of the batch, in input order.
	Entries []model.IndexEntry
	// Processed is the number of input IDs handled so far, including this batch.
	Processed int
	// Total is the number of input IDs.
	Total int
	// Skipped is the number of IDs of this batch that produced no entry.
	Skipped int
}

// Build indexes ids and returns the entries in input order.
func Build(ctx context.Context, st store.Store, modelID string, ids []model.ID, opts ...Option) ([]model.IndexEntry, error) {
	entries := make([]model.IndexEntry, 0, len(ids))
	for b, err := range Batches(ctx, st, modelID, ids, opts...) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, b.Entries...)
	}
	return entries, nil
}

// Batches returns an iterator over the batches of an index build.
//
// Progress is reported before a batch is handed to the consumer, the yield
// hook runs after the consumer returns. Iteration stops at the first error.
func Batches(ctx context.Context, st store.Store, modelID string, ids []model.ID, opts ...Option) iter.Seq2[Batch, error] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(Batch, error) bool) {
		if o.BatchSize <= 0 {
			yield(Batch{}, ErrInvalidBatchSize)
			return
		}
		if err := ctx.Err(); err != nil {
			yield(Batch{}, err)
			return
		}

		idx := o.Index
		if idx == nil {
			var err error
			if idx, err = relindex.Build(st, modelID); err != nil {
				yield(Batch{}, err)
				return
			}
		}

		b := newBuilder(ctx, st, modelID, idx, &o)
		total := len(ids)

		for start := 0; start < total; start += o.BatchSize {
			if err := ctx.Err(); err != nil {
				yield(Batch{}, err)
				return
			}

			end := min(start+o.BatchSize, total)
			batch, err := b.run(ctx, ids[start:end])
			if err != nil {
				yield(Batch{}, err)
				return
			}
			batch.Processed = end
			batch.Total = total

			o.Logger.Debug("element index batch",
				"model", modelID,
				"processed", end,
				"total", total,
				"entries", len(batch.Entries),
				"skipped", batch.Skipped,
			)

			if o.Progress != nil {
				o.Progress(end, total)
			}
			if !yield(batch, nil) {
				return
			}
			o.Yield()
		}
	}
}

type builder struct {
	res     *resolver.Resolver
	idx     *relindex.Index
	opts    *Options
	skipLog rate.Sometimes
}

func newBuilder(ctx context.Context, st store.Store, modelID string, idx *relindex.Index, o *Options) *builder {
	if o.Controller != nil {
		st = resource.NewLimitedStore(ctx, st, o.Controller)
	}
	ropts := []resolver.Option{resolver.WithLogger(o.Logger)}
	if o.Table != nil {
		ropts = append(ropts, resolver.WithTable(o.Table))
	}
	return &builder{
		res:     resolver.New(st, modelID, ropts...),
		idx:     idx,
		opts:    o,
		skipLog: rate.Sometimes{First: 3, Interval: 5 * time.Second},
	}
}

// run resolves one batch, sequentially or fanned out.
func (b *builder) run(ctx context.Context, ids []model.ID) (Batch, error) {
	slots := make([]*model.IndexEntry, len(ids))

	workers := b.opts.Workers
	if b.opts.Controller != nil {
		workers = min(workers, b.opts.Controller.MaxWorkers())
	}

	if workers < 2 || len(ids) < 2 {
		for i, id := range ids {
			e, err := b.one(id)
			if err != nil {
				return Batch{}, err
			}
			slots[i] = e
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, id := range ids {
			g.Go(func() error {
				if b.opts.Controller != nil {
					if err := b.opts.Controller.AcquireWorker(gctx); err != nil {
						return err
					}
					defer b.opts.Controller.ReleaseWorker()
				}
				e, err := b.one(id)
				if err != nil {
					return err
				}
				slots[i] = e
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Batch{}, err
		}
	}

	batch := Batch{Entries: make([]model.IndexEntry, 0, len(ids))}
	for _, e := range slots {
		if e == nil {
			batch.Skipped++
			continue
		}
		batch.Entries = append(batch.Entries, *e)
	}
	return batch, nil
}

// one resolves and flattens a single element. A nil entry means skip.
func (b *builder) one(id model.ID) (*model.IndexEntry, error) {
	info, err := b.res.Resolve(id, b.idx)
	if err != nil {
		if isFatal(err) {
			return nil, err
		}
		b.skipLog.Do(func() {
			b.opts.Logger.Warn("skipping element", "model", b.res.ModelID(), "id", id, "error", err)
		})
		return nil, nil
	}
	if info == nil {
		return nil, nil
	}
	e := Flatten(info)
	return &e, nil
}

// isFatal reports whether err aborts the whole build.
func isFatal(err error) bool {
	return errors.Is(err, store.ErrModelNotOpen) ||
		errors.Is(err, resource.ErrRateLimited) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Flatten projects a resolved element onto an index entry.
func Flatten(info *model.ElementInfo) model.IndexEntry {
	kp := info.KeyParameters
	e := model.IndexEntry{
		ID:     info.ID,
		Type:   info.Type,
		Name:   info.Name,
		Floor:  kp.Floor,
		Volume: parseFloat(kp.Volume),
		Area:   parseFloat(kp.Area),
		Height: parseFloat(kp.Height),
		Length: parseFloat(kp.Length),
	}
	if len(info.Materials) > 0 {
		e.Material = info.Materials[0]
	}

	n := 0
	for _, s := range info.PropertySets {
		n += len(s.Properties)
	}
	e.SearchableProps = make([]string, 0, n)
	for _, s := range info.PropertySets {
		for _, p := range s.Properties {
			e.SearchableProps = append(e.SearchableProps, fmt.Sprintf("%s=%s", p.Name, p.Value.Text()))
		}
	}
	return e
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
