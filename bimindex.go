package bimindex

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/bimindex/elementindex"
	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/quantify"
	"github.com/hupe1980/bimindex/relindex"
	"github.com/hupe1980/bimindex/resolver"
	"github.com/hupe1980/bimindex/search"
	"github.com/hupe1980/bimindex/spatial"
	"github.com/hupe1980/bimindex/store"
)

// BuildRelationshipIndex scans every relationship record of the model once.
//
// Missing or malformed relationship records are skipped. The only error is a
// store-level failure, returned as *ErrStore.
func BuildRelationshipIndex(st store.Store, modelID string, opts ...Option) (*relindex.Index, error) {
	o := applyOptions(opts)
	return buildRelationshipIndex(st, modelID, &o)
}

func buildRelationshipIndex(st store.Store, modelID string, o *options) (*relindex.Index, error) {
	start := time.Now()
	idx, err := relindex.Build(st, modelID)
	d := time.Since(start)

	var stats relindex.Stats
	if idx != nil {
		stats = idx.Stats()
	}
	o.metricsCollector.RecordRelationshipIndex(stats.Records, d, err)
	o.logger.WithModel(modelID).LogRelationshipIndex(context.Background(), stats.Records, stats.Skipped, d, err)

	if err != nil {
		return nil, translateError(modelID, "build relationship index", err)
	}
	return idx, nil
}

// GetElementProperties resolves one element.
//
// With a non-nil idx the relationship index answers every lookup; with a nil
// idx the relationship records are re-scanned per call. Both paths return the
// same result. A missing element yields (nil, nil).
func GetElementProperties(st store.Store, modelID string, id model.ID, idx *relindex.Index, opts ...Option) (*model.ElementInfo, error) {
	o := applyOptions(opts)
	return getElementProperties(st, modelID, id, idx, &o)
}

func getElementProperties(st store.Store, modelID string, id model.ID, idx *relindex.Index, o *options) (*model.ElementInfo, error) {
	res := resolver.New(st, modelID,
		resolver.WithTable(o.table),
		resolver.WithLogger(o.logger.Logger),
	)

	// A nil *Index must not become a non-nil Lookup.
	var lookup relindex.Lookup
	if idx != nil {
		lookup = idx
	}

	start := time.Now()
	info, err := res.Resolve(id, lookup)
	o.metricsCollector.RecordResolve(time.Since(start), info != nil, err)
	o.logger.WithModel(modelID).LogResolve(context.Background(), id, info != nil, err)

	if err != nil {
		return nil, translateError(modelID, "resolve element", err)
	}
	return info, nil
}

// BuildElementIndex resolves ids in batches and returns one entry per element
// that exists, in input order.
//
// After every batch the progress callback runs and the yield hook is invoked.
// Cancelling ctx aborts between batches and discards the partial result. An
// invalid batch size returns ErrInvalidBatchSize before any work is done.
func BuildElementIndex(ctx context.Context, st store.Store, modelID string, ids []model.ID, opts ...Option) ([]model.IndexEntry, error) {
	o := applyOptions(opts)
	return buildElementIndex(ctx, st, modelID, ids, &o)
}

func buildElementIndex(ctx context.Context, st store.Store, modelID string, ids []model.ID, o *options) ([]model.IndexEntry, error) {
	logger := o.logger.WithModel(modelID)
	start := time.Now()

	var (
		entries   = make([]model.IndexEntry, 0, len(ids))
		processed int
		err       error
	)
	batchStart := time.Now()
	for b, berr := range elementindex.Batches(ctx, st, modelID, ids, o.elementIndexOptions()...) {
		if berr != nil {
			err = berr
			break
		}
		o.metricsCollector.RecordBatch(b.Processed-processed, b.Skipped, time.Since(batchStart))
		processed = b.Processed
		entries = append(entries, b.Entries...)
		batchStart = time.Now()
	}

	d := time.Since(start)
	if err != nil {
		o.metricsCollector.RecordElementIndex(len(ids), 0, d, err)
		logger.LogElementIndex(ctx, len(ids), len(entries), d, err)
		return nil, translateError(modelID, "build element index", err)
	}

	o.metricsCollector.RecordElementIndex(len(ids), len(entries), d, nil)
	logger.LogElementIndex(ctx, len(ids), len(entries), d, nil)
	return entries, nil
}

// ElementIDs returns the identifiers of all records of the given types, in
// type order, without duplicates. It is a convenience for assembling the input
// of BuildElementIndex.
func ElementIDs(st store.Store, modelID string, types ...string) ([]model.ID, error) {
	var (
		ids  []model.ID
		seen = make(map[model.ID]struct{})
	)
	for _, t := range types {
		found, err := st.IDsOfType(modelID, t)
		if err != nil {
			return nil, translateError(modelID, "list elements", err)
		}
		for _, id := range found {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Quantify groups entries by dim. Rows appear in first-seen order; use
// quantify.SortState to order them for display.
func Quantify(entries []model.IndexEntry, dim quantify.Dimension) []quantify.Row {
	return quantify.Group(entries, dim)
}

// Search returns the entries matching every populated clause of c, in input
// order. A filter with an unknown operator matches nothing.
func Search(entries []model.IndexEntry, c search.Criteria) []model.IndexEntry {
	return search.Filter(entries, c)
}

// Model is a session over one loaded model.
//
// It owns the relationship index of the model, built on first use and
// discarded by Close, and the element index produced by BuildIndex. A Model
// is safe for concurrent use.
type Model struct {
	st      store.Store
	modelID string
	opts    options
	logger  *Logger

	mu      sync.RWMutex
	idx     *relindex.Index
	entries []model.IndexEntry
	search  *search.Index
	closed  bool
}

// Open starts a session over a model that is already open in st.
func Open(st store.Store, modelID string, opts ...Option) *Model {
	o := applyOptions(opts)
	m := &Model{
		st:      st,
		modelID: modelID,
		opts:    o,
		logger:  o.logger.WithModel(modelID),
		idx:     o.index,
		search:  search.NewIndex(nil),
	}
	m.opts.index = nil
	return m
}

// ID returns the model identifier.
func (m *Model) ID() string {
	return m.modelID
}

// RelationshipIndex returns the relationship index, building it on first use.
func (m *Model) RelationshipIndex() (*relindex.Index, error) {
	m.mu.RLock()
	idx, closed := m.idx, m.closed
	m.mu.RUnlock()

	if closed {
		return nil, ErrClosed
	}
	if idx != nil {
		return idx, nil
	}

	idx, err := buildRelationshipIndex(m.st, m.modelID, &m.opts)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if m.idx == nil {
		m.idx = idx
	}
	return m.idx, nil
}

// Element resolves one element. It uses the relationship index when one has
// been built and falls back to scanning otherwise, so inspecting a single
// element never forces a full index build.
func (m *Model) Element(id model.ID) (*model.ElementInfo, error) {
	m.mu.RLock()
	idx, closed := m.idx, m.closed
	m.mu.RUnlock()

	if closed {
		return nil, ErrClosed
	}
	return getElementProperties(m.st, m.modelID, id, idx, &m.opts)
}

// BuildIndex builds the element index of ids and keeps it for Search, Facets
// and Quantify. A cancelled or failed build leaves the previous index in place.
func (m *Model) BuildIndex(ctx context.Context, ids []model.ID, opts ...Option) ([]model.IndexEntry, error) {
	idx, err := m.RelationshipIndex()
	if err != nil {
		return nil, err
	}

	o := m.opts.with(opts)
	o.index = idx

	entries, err := buildElementIndex(ctx, m.st, m.modelID, ids, &o)
	if err != nil {
		return nil, err
	}
	si := search.NewIndex(entries)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	m.entries = entries
	m.search = si
	return entries, nil
}

// Entries returns the element index of the last successful BuildIndex.
func (m *Model) Entries() []model.IndexEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.entries)
}

// Search evaluates c against the element index using facet bitmaps.
// Unlike the package-level Search, an unknown operator is reported as
// ErrInvalidCriteria.
func (m *Model) Search(c search.Criteria) ([]model.IndexEntry, error) {
	if err := c.Validate(); err != nil {
		return nil, translateError(m.modelID, "search", err)
	}

	m.mu.RLock()
	si, closed := m.search, m.closed
	m.mu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	start := time.Now()
	results := si.Search(c)
	m.opts.metricsCollector.RecordSearch(len(results), time.Since(start))
	m.logger.Debug("search completed", "results", len(results))
	return results, nil
}

// Facets returns the value counts of one facet over the element index.
func (m *Model) Facets(f search.Facet) []search.FacetCount {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.search.Facets(f)
}

// Quantify groups the element index by dim.
func (m *Model) Quantify(dim quantify.Dimension) []quantify.Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return quantify.Group(m.entries, dim)
}

// SpatialTree returns the spatial decomposition of the model with element
// counts per node.
func (m *Model) SpatialTree() ([]*spatial.Node, error) {
	idx, err := m.RelationshipIndex()
	if err != nil {
		return nil, err
	}
	roots, err := spatial.BuildTree(m.st, m.modelID, idx)
	if err != nil {
		return nil, translateError(m.modelID, "build spatial tree", err)
	}
	return roots, nil
}

// Close discards the relationship and element indexes. Further calls return
// ErrClosed. Close is idempotent.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.idx = nil
	m.entries = nil
	m.search = search.NewIndex(nil)
	m.logger.Debug("model session closed")
	return nil
}
