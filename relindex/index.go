package relindex

import (
	"fmt"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/store"
)

// Index is the relationship index of one loaded model.
//
// An Index is immutable once built and safe for concurrent readers. It must be
// rebuilt, never patched, when the underlying model is replaced.
type Index struct {
	related     [3]map[model.ID][]model.ID // KindProperties, KindMaterial, KindClassification
	containment map[model.ID]model.ID
	contained   map[model.ID]int // structure -> element count
	stats       Stats
}

// Stats summarizes an index build.
type Stats struct {
	// Records is the number of relationship records enumerated.
	Records int
	// Skipped is the number of records that were missing or malformed.
	Skipped int
	// Associations is the number of element associations per kind.
	Associations [4]int
}

// Ensure Index implements Lookup.
var _ Lookup = (*Index)(nil)

// Build scans every relationship record of the model once and returns the index.
//
// Missing or malformed relationship records are skipped silently. Only
// store-level failures (e.g. store.ErrModelNotOpen) are returned.
func Build(st store.Store, modelID string) (*Index, error) {
	ix := &Index{
		containment: make(map[model.ID]model.ID),
	}
	for i := range ix.related {
		ix.related[i] = make(map[model.ID][]model.ID)
	}

	for _, kind := range Kinds {
		var fn func(model.ID, []model.ID)
		if kind == KindContainment {
			fn = func(structure model.ID, elements []model.ID) {
				for _, e := range elements {
					// Last write wins when several records claim an element.
					ix.containment[e] = structure
				}
				ix.stats.Associations[kind] += len(elements)
			}
		} else {
			bucket := ix.related[kind]
			fn = func(relating model.ID, elements []model.ID) {
				for _, e := range elements {
					bucket[e] = append(bucket[e], relating)
				}
				ix.stats.Associations[kind] += len(elements)
			}
		}

		s, err := scan(st, modelID, kind, fn)
		ix.stats.Records += s.records
		ix.stats.Skipped += s.skipped
		if err != nil {
			return nil, fmt.Errorf("relindex: %w", err)
		}
	}

	ix.contained = make(map[model.ID]int)
	for _, structure := range ix.containment {
		ix.contained[structure]++
	}

	return ix, nil
}

// PropertyDefinitions implements Lookup. The returned slice must not be modified.
func (ix *Index) PropertyDefinitions(id model.ID) ([]model.ID, error) {
	return ix.related[KindProperties][id], nil
}

// Materials implements Lookup. The returned slice must not be modified.
func (ix *Index) Materials(id model.ID) ([]model.ID, error) {
	return ix.related[KindMaterial][id], nil
}

// Classifications implements Lookup. The returned slice must not be modified.
func (ix *Index) Classifications(id model.ID) ([]model.ID, error) {
	return ix.related[KindClassification][id], nil
}

// Structure implements Lookup.
func (ix *Index) Structure(id model.ID) (model.ID, bool, error) {
	s, ok := ix.containment[id]
	return s, ok, nil
}

// Related returns the IDs attached to id for kind. For KindContainment the
// result holds at most the containing structure.
func (ix *Index) Related(kind Kind, id model.ID) []model.ID {
	if kind == KindContainment {
		if s, ok := ix.containment[id]; ok {
			return []model.ID{s}
		}
		return nil
	}
	return ix.related[kind][id]
}

// Len returns the number of elements with at least one association of the kind.
func (ix *Index) Len(kind Kind) int {
	if kind == KindContainment {
		return len(ix.containment)
	}
	return len(ix.related[kind])
}

// ContainedCount returns how many elements the index places in structure.
func (ix *Index) ContainedCount(structure model.ID) int {
	return ix.contained[structure]
}

// Stats returns build statistics.
func (ix *Index) Stats() Stats {
	return ix.stats
}
