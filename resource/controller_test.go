package resource

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/bimindex/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})
	assert.Equal(t, 2, c.MaxWorkers())

	// Acquire 2
	require.NoError(t, c.AcquireWorker(context.Background()))
	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.Equal(t, int64(2), c.BusyWorkers())

	// Try 3rd
	assert.False(t, c.TryAcquireWorker())

	// Blocking 3rd times out
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWorker(ctx), context.DeadlineExceeded)

	// Release 1
	c.ReleaseWorker()
	assert.Equal(t, int64(1), c.BusyWorkers())

	// Try 3rd again
	assert.True(t, c.TryAcquireWorker())
}

func TestController_DefaultWorkers(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, 1, c.MaxWorkers())
	assert.True(t, c.TryAcquireWorker())
	assert.False(t, c.TryAcquireWorker())
}

func TestController_Nil(t *testing.T) {
	var c *Controller

	assert.Equal(t, 1, c.MaxWorkers())
	assert.True(t, c.TryAcquireWorker())
	require.NoError(t, c.AcquireWorker(context.Background()))
	c.ReleaseWorker()
	require.NoError(t, c.AcquireResolve(context.Background(), 5))
	assert.Zero(t, c.Resolves())
	assert.Zero(t, c.BusyWorkers())
}

func TestController_ResolveRate(t *testing.T) {
	c := NewController(Config{ResolvesPerSec: 1, ResolveBurst: 1})

	require.NoError(t, c.AcquireResolve(context.Background(), 1))

	// Bucket is empty; the next token is a second away.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireResolve(ctx, 1))
	assert.Equal(t, int64(2), c.Resolves())
}

func TestLimitedStore(t *testing.T) {
	b := testutil.NewModel("m")
	wall := b.Element("IfcWall", "Wall")

	c := NewController(Config{})
	ls := NewLimitedStore(context.Background(), b.Store(), c)

	rec, err := ls.Resolve("m", wall)
	require.NoError(t, err)
	assert.Equal(t, "IfcWall", rec.Type)

	ids, err := ls.IDsOfType("m", "IfcWall")
	require.NoError(t, err)
	assert.Equal(t, wall, ids[0])
	assert.Equal(t, int64(1), c.Resolves())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	limited := NewLimitedStore(ctx, b.Store(), NewController(Config{ResolvesPerSec: 1, ResolveBurst: 1}))
	_, err = limited.Resolve("m", wall)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimitedStore_RateLimitedBeforeDeadline(t *testing.T) {
	b := testutil.NewModel("m")
	wall := b.Element("IfcWall", "Wall")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ls := NewLimitedStore(ctx, b.Store(), NewController(Config{ResolvesPerSec: 1, ResolveBurst: 1}))
	_, err := ls.Resolve("m", wall)
	require.NoError(t, err)

	_, err = ls.Resolve("m", wall)
	require.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}
