package bimindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/bimindex/elementindex"
	"github.com/hupe1980/bimindex/keyparam"
	"github.com/hupe1980/bimindex/search"
	"github.com/hupe1980/bimindex/store"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrModelNotOpen is returned when the store no longer has the model open.
	ErrModelNotOpen = errors.New("model not open")

	// ErrClosed is returned by a Model after Close.
	ErrClosed = errors.New("model session closed")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidConfig is returned when a configuration fails validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidCriteria is returned when search criteria use an unknown operator.
	ErrInvalidCriteria = errors.New("invalid search criteria")
)

// ErrStore indicates a store-level failure while serving an operation.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrStore struct {
	ModelID string
	Op      string
	cause   error
}

func (e *ErrStore) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.ModelID, e.cause)
}

func (e *ErrStore) Unwrap() error { return e.cause }

func translateError(modelID, op string, err error) error {
	if err == nil {
		return nil
	}

	// Cancellation passes through untouched.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// Argument and configuration errors.
	if errors.Is(err, elementindex.ErrInvalidBatchSize) {
		return fmt.Errorf("%w: %w", ErrInvalidBatchSize, err)
	}
	if errors.Is(err, keyparam.ErrUnknownField) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if errors.Is(err, search.ErrUnknownOperator) {
		return fmt.Errorf("%w: %w", ErrInvalidCriteria, err)
	}

	// Store-level failures.
	if errors.Is(err, store.ErrModelNotOpen) {
		return &ErrStore{ModelID: modelID, Op: op, cause: fmt.Errorf("%w: %w", ErrModelNotOpen, err)}
	}
	if errors.Is(err, store.ErrNotFound) {
		return &ErrStore{ModelID: modelID, Op: op, cause: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}

	return &ErrStore{ModelID: modelID, Op: op, cause: err}
}
