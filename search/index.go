package search

import (
	"cmp"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/bimindex/model"
)

// Facet is an indexed entry attribute.
type Facet uint8

const (
	FacetType Facet = iota
	FacetFloor
	FacetMaterial
)

// String returns the name of the facet.
func (f Facet) String() string {
	switch f {
	case FacetType:
		return "type"
	case FacetFloor:
		return "floor"
	case FacetMaterial:
		return "material"
	default:
		return "unknown"
	}
}

// FacetCount is the number of entries sharing one facet value.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Index is an immutable facet index over a snapshot of entries.
//
// Posting lists hold entry positions, so iterating a bitmap in ascending order
// yields entries in input order. Safe for concurrent readers.
type Index struct {
	entries []model.IndexEntry
	all     *roaring.Bitmap
	facets  [3]map[string]*roaring.Bitmap
}

// NewIndex builds the facet index. entries must not be modified afterwards.
// Panics if there are more than math.MaxUint32 entries.
func NewIndex(entries []model.IndexEntry) *Index {
	if uint64(len(entries)) > math.MaxUint32 {
		panic("search: too many entries")
	}

	ix := &Index{
		entries: entries,
		all:     roaring.New(),
	}
	for i := range ix.facets {
		ix.facets[i] = make(map[string]*roaring.Bitmap)
	}

	for i := range entries {
		pos := uint32(i)
		e := &entries[i]
		ix.add(FacetType, e.Type, pos)
		ix.add(FacetFloor, e.Floor, pos)
		ix.add(FacetMaterial, e.Material, pos)
	}
	ix.all.AddRange(0, uint64(len(entries)))

	for _, m := range ix.facets {
		for _, bm := range m {
			bm.RunOptimize()
		}
	}
	ix.all.RunOptimize()

	return ix
}

func (ix *Index) add(f Facet, value string, pos uint32) {
	bm, ok := ix.facets[f][value]
	if !ok {
		bm = roaring.New()
		ix.facets[f][value] = bm
	}
	bm.Add(pos)
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// union returns the positions whose facet value is in values.
func (ix *Index) union(f Facet, values []string) *roaring.Bitmap {
	bms := make([]*roaring.Bitmap, 0, len(values))
	for _, v := range values {
		if bm, ok := ix.facets[f][v]; ok {
			bms = append(bms, bm)
		}
	}
	return roaring.FastOr(bms...)
}

// Candidates returns the positions that satisfy the set clauses of c.
func (ix *Index) Candidates(c Criteria) *roaring.Bitmap {
	out := ix.all.Clone()
	for f, values := range map[Facet][]string{
		FacetType:     c.Types,
		FacetFloor:    c.Floors,
		FacetMaterial: c.Materials,
	} {
		if len(values) == 0 {
			continue
		}
		out.And(ix.union(f, values))
	}
	return out
}

// Search returns the entries matching c, in input order.
// The result is identical to Filter(entries, c).
func (ix *Index) Search(c Criteria) []model.IndexEntry {
	m := newMatcher(c)
	out := make([]model.IndexEntry, 0)

	it := ix.Candidates(c).Iterator()
	for it.HasNext() {
		e := &ix.entries[it.Next()]
		if m.rest(e) {
			out = append(out, *e)
		}
	}
	return out
}

// Count returns the number of entries matching c.
func (ix *Index) Count(c Criteria) int {
	cand := ix.Candidates(c)
	m := newMatcher(c)
	if m.query == "" && len(m.filters) == 0 {
		return int(cand.GetCardinality())
	}
	n := 0
	it := cand.Iterator()
	for it.HasNext() {
		if m.rest(&ix.entries[it.Next()]) {
			n++
		}
	}
	return n
}

// Facets returns the value counts of a facet, largest first, ties by value.
func (ix *Index) Facets(f Facet) []FacetCount {
	if int(f) >= len(ix.facets) {
		return nil
	}
	out := make([]FacetCount, 0, len(ix.facets[f]))
	for v, bm := range ix.facets[f] {
		out = append(out, FacetCount{Value: v, Count: int(bm.GetCardinality())})
	}
	slices.SortFunc(out, func(a, b FacetCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}
