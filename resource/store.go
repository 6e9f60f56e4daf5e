package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/bimindex/model"
	"github.com/hupe1980/bimindex/record"
	"github.com/hupe1980/bimindex/store"
)

// ErrRateLimited is returned when a resolve token cannot be granted before
// the bound context's deadline.
var ErrRateLimited = errors.New("resource: resolve rate limit exceeds deadline")

// LimitedStore wraps a store.Store with record-resolution rate limiting.
//
// The store contract carries no context, so the context used for waiting is
// bound at construction.
type LimitedStore struct {
	st  store.Store
	rc  *Controller
	ctx context.Context
}

// Ensure LimitedStore implements store.Store.
var _ store.Store = (*LimitedStore)(nil)

// NewLimitedStore creates a new LimitedStore.
func NewLimitedStore(ctx context.Context, st store.Store, rc *Controller) *LimitedStore {
	return &LimitedStore{
		st:  st,
		rc:  rc,
		ctx: ctx,
	}
}

// Resolve waits for a resolve token, then delegates.
// A limiter failure is reported as the context error when the context is
// done, and as ErrRateLimited otherwise.
func (s *LimitedStore) Resolve(modelID string, id model.ID) (*record.Record, error) {
	if err := s.rc.AcquireResolve(s.ctx, 1); err != nil {
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return s.st.Resolve(modelID, id)
}

// IDsOfType delegates without limiting.
func (s *LimitedStore) IDsOfType(modelID string, typeTag string) ([]model.ID, error) {
	return s.st.IDsOfType(modelID, typeTag)
}
