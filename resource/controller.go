package resource

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned by AcquireMemory when granting the
// request would exceed Config.MemoryLimitBytes.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config sets the limits of a Controller. Zero values mean "no limit"
// except for MaxWorkers.
type Config struct {
	// MemoryLimitBytes caps the bytes reserved for result buffers at once.
	// With 0 reservations are only counted.
	MemoryLimitBytes int64

	// MaxWorkers caps concurrently running search goroutines. 0 means
	// GOMAXPROCS.
	MaxWorkers int64

	// QueriesPerSecond throttles how fast query vectors are dispatched.
	QueriesPerSecond float64

	// QueryBurst is the largest number of query vectors admitted at once.
	// 0 means max(1, QueriesPerSecond).
	QueryBurst int
}

// Controller enforces limits shared by any number of indexes and parallel
// searchers. A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	mem     *semaphore.Weighted // nil without a memory limit
	memUsed atomic.Int64

	workers *semaphore.Weighted
	queries *rate.Limiter // nil without a rate limit
}

// NewController returns a controller enforcing cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = int64(runtime.GOMAXPROCS(0))
	}

	if cfg.QueriesPerSecond > 0 && cfg.QueryBurst <= 0 {
		cfg.QueryBurst = max(1, int(cfg.QueriesPerSecond))
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}
	if cfg.MemoryLimitBytes > 0 {
		c.mem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.QueriesPerSecond > 0 {
		c.queries = rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), cfg.QueryBurst)
	}
	return c
}

// AcquireMemory reserves bytes or fails at once with
// ErrMemoryLimitExceeded. It never waits.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.mem != nil && !c.mem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}
	c.memUsed.Add(bytes)
	return nil
}

// ReleaseMemory returns a reservation made by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.mem != nil {
		c.mem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the bytes currently reserved.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryLimit returns Config.MemoryLimitBytes.
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// Workers returns the effective worker limit, or 0 for a nil controller.
func (c *Controller) Workers() int {
	if c == nil {
		return 0
	}
	return int(c.cfg.MaxWorkers)
}

// AcquireWorker waits for a free worker slot or for ctx to end.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workers.Acquire(ctx, 1)
}

// TryAcquireWorker takes a worker slot if one is free.
func (c *Controller) TryAcquireWorker() bool {
	if c == nil {
		return true
	}
	return c.workers.TryAcquire(1)
}

// ReleaseWorker frees a slot taken by AcquireWorker or TryAcquireWorker.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}

// AcquireQueries waits until the rate limit admits n query vectors.
// Requests larger than the burst are admitted in burst-sized steps.
func (c *Controller) AcquireQueries(ctx context.Context, n int) error {
	if c == nil || c.queries == nil {
		return nil
	}
	burst := c.queries.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := c.queries.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// TryAcquireQueries admits n query vectors if the bucket holds enough
// tokens right now.
func (c *Controller) TryAcquireQueries(n int) bool {
	if c == nil || c.queries == nil {
		return true
	}
	return c.queries.AllowN(time.Now(), n)
}
