// Package resource governs the shared budgets of index builds.
//
//	┌──────────────────────────────┬──────────────────────────────┐
//	│  Workers (semaphore)         │  Resolves (token bucket)     │
//	├──────────────────────────────┼──────────────────────────────┤
//	│  AcquireWorker               │  AcquireResolve              │
//	│  TryAcquireWorker            │  LimitedStore                │
//	│  ReleaseWorker               │                              │
//	└──────────────────────────────┴──────────────────────────────┘
//
// One Controller may be shared by several concurrent builds so that together
// they never exceed the configured worker count or record-resolution rate.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxWorkers is the maximum number of concurrently resolving workers.
	// If 0, defaults to 1.
	MaxWorkers int64

	// ResolvesPerSec is the maximum number of store record resolutions per second.
	// If 0, unlimited.
	ResolvesPerSec int64

	// ResolveBurst is the token bucket size. If 0, defaults to ResolvesPerSec.
	ResolveBurst int
}

// Controller manages worker concurrency and store access rate.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	workers *semaphore.Weighted
	busy    atomic.Int64

	resolveLimiter *rate.Limiter // nil if unlimited
	resolves       atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.ResolvesPerSec > 0 {
		burst := cfg.ResolveBurst
		if burst <= 0 {
			burst = int(cfg.ResolvesPerSec)
		}
		c.resolveLimiter = rate.NewLimiter(rate.Limit(cfg.ResolvesPerSec), burst)
	}

	return c
}

// MaxWorkers returns the configured worker limit.
func (c *Controller) MaxWorkers() int {
	if c == nil {
		return 1
	}
	return int(c.cfg.MaxWorkers)
}

// AcquireWorker reserves a worker slot.
// Blocks until a slot is free or ctx is canceled.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}
	if err := c.workers.Acquire(ctx, 1); err != nil {
		return err
	}
	c.busy.Add(1)
	return nil
}

// TryAcquireWorker reserves a worker slot without blocking.
func (c *Controller) TryAcquireWorker() bool {
	if c == nil {
		return true
	}
	if !c.workers.TryAcquire(1) {
		return false
	}
	c.busy.Add(1)
	return true
}

// ReleaseWorker releases a worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.busy.Add(-1)
	c.workers.Release(1)
}

// BusyWorkers returns the number of reserved worker slots.
func (c *Controller) BusyWorkers() int64 {
	if c == nil {
		return 0
	}
	return c.busy.Load()
}

// AcquireResolve waits until the rate limit allows n record resolutions.
func (c *Controller) AcquireResolve(ctx context.Context, n int) error {
	if c == nil || n <= 0 {
		return nil
	}
	c.resolves.Add(int64(n))
	if c.resolveLimiter == nil {
		return nil
	}
	return c.resolveLimiter.WaitN(ctx, n)
}

// Resolves returns the number of record resolutions admitted so far.
func (c *Controller) Resolves() int64 {
	if c == nil {
		return 0
	}
	return c.resolves.Load()
}
