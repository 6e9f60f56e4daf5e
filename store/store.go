// Package store defines the entity store contract consumed by bimindex and
// ships an in-memory arena implementation.
//
// The store is populated by a format-specific parser outside bimindex. The
// indexing engine only ever reads from it, by identifier or by type tag.
package store

import (
	"errors"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/record"
)

var (
	// ErrNotFound is returned when a record does not exist in an open model.
	//
	// Callers treat it as absence, never as a failure.
	ErrNotFound = errors.New("record not found")

	// ErrModelNotOpen is returned when the model is not (or no longer) open.
	ErrModelNotOpen = errors.New("model not open")
)

// Store is an already-opened, read-only entity record store.
//
// Implementations must be safe for concurrent readers.
type Store interface {
	// Resolve returns the record with the given identifier.
	// Implementations should return an error that satisfies
	// errors.Is(err, ErrNotFound) when the record does not exist.
	Resolve(modelID string, id model.ID) (*record.Record, error)

	// IDsOfType returns the identifiers of all records with the given type tag,
	// in a stable order.
	IDsOfType(modelID string, typeTag string) ([]model.ID, error)
}

// IsNotFound reports whether err means the record is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
