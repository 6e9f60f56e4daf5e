package relindex

import (
	"fmt"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/store"
)

// Scanner answers Lookup questions without a pre-built index.
//
// Every call re-scans all relationship records of the requested kind, so a call
// costs O(R). Use it for single ad-hoc lookups before an Index exists.
type Scanner struct {
	st      store.Store
	modelID string
}

// Ensure Scanner implements Lookup.
var _ Lookup = (*Scanner)(nil)

// NewScanner creates a Scanner over the given model.
func NewScanner(st store.Store, modelID string) *Scanner {
	return &Scanner{st: st, modelID: modelID}
}

// PropertyDefinitions implements Lookup.
func (s *Scanner) PropertyDefinitions(id model.ID) ([]model.ID, error) {
	return s.collect(KindProperties, id)
}

// Materials implements Lookup.
func (s *Scanner) Materials(id model.ID) ([]model.ID, error) {
	return s.collect(KindMaterial, id)
}

// Classifications implements Lookup.
func (s *Scanner) Classifications(id model.ID) ([]model.ID, error) {
	return s.collect(KindClassification, id)
}

// Structure implements Lookup.
func (s *Scanner) Structure(id model.ID) (model.ID, bool, error) {
	var (
		structure model.ID
		found     bool
	)
	_, err := scan(s.st, s.modelID, KindContainment, func(relating model.ID, related []model.ID) {
		for _, e := range related {
			if e == id {
				structure, found = relating, true
			}
		}
	})
	if err != nil {
		return 0, false, fmt.Errorf("relindex: %w", err)
	}
	return structure, found, nil
}

// collect mirrors Build's append order: one entry per occurrence of id in a
// record's related list, records in store order.
func (s *Scanner) collect(kind Kind, id model.ID) ([]model.ID, error) {
	var out []model.ID
	_, err := scan(s.st, s.modelID, kind, func(relating model.ID, related []model.ID) {
		for _, e := range related {
			if e == id {
				out = append(out, relating)
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("relindex: %w", err)
	}
	return out, nil
}
