package store

import (
	"fmt"
	"sync"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/record"
)

// Memory is an in-memory Store implementation.
//
// Each model is an arena: a table of records keyed by ID plus a per-type list
// of IDs in insertion order. Thread-safe for concurrent reads and writes.
type Memory struct {
	mu     sync.RWMutex
	models map[string]*arena
}

type arena struct {
	records map[model.ID]*record.Record
	byType  map[string][]model.ID
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)

// NewMemory creates a new empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		models: make(map[string]*arena),
	}
}

// Open creates an empty model. Opening an already open model is a no-op.
func (m *Memory) Open(modelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.models[modelID]; ok {
		return
	}
	m.models[modelID] = &arena{
		records: make(map[model.ID]*record.Record),
		byType:  make(map[string][]model.ID),
	}
}

// Close discards a model and all of its records.
func (m *Memory) Close(modelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.models, modelID)
}

// Put stores a record. Identifiers are never reused, so storing a second
// record under an existing ID is rejected.
func (m *Memory) Put(modelID string, rec *record.Record) error {
	if rec == nil {
		return fmt.Errorf("put into model %q: nil record", modelID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.models[modelID]
	if !ok {
		return fmt.Errorf("put into model %q: %w", modelID, ErrModelNotOpen)
	}
	if _, exists := a.records[rec.ID]; exists {
		return fmt.Errorf("put into model %q: duplicate id %s", modelID, rec.ID)
	}

	// Copy to prevent external mutation
	a.records[rec.ID] = rec.Clone()
	a.byType[rec.Type] = append(a.byType[rec.Type], rec.ID)
	return nil
}

// Len returns the number of records in the model.
func (m *Memory) Len(modelID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.models[modelID]
	if !ok {
		return 0
	}
	return len(a.records)
}

// Resolve implements Store.
func (m *Memory) Resolve(modelID string, id model.ID) (*record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.models[modelID]
	if !ok {
		return nil, ErrModelNotOpen
	}
	rec, ok := a.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

// IDsOfType implements Store.
func (m *Memory) IDsOfType(modelID string, typeTag string) ([]model.ID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.models[modelID]
	if !ok {
		return nil, ErrModelNotOpen
	}
	ids := a.byType[typeTag]
	out := make([]model.ID, len(ids))
	copy(out, ids)
	return out, nil
}
