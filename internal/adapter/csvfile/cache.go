package csvfile

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

// DatasetLoader produces the in-memory dataset.
type DatasetLoader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// CachedLoader memoizes the first successful load for the life of the process.
type CachedLoader struct {
	inner   DatasetLoader
	logger  *slog.Logger
	metrics *observability.Metrics

	mu       sync.Mutex
	dataset  *domain.Dataset
	inflight *loadCall
}

// loadCall is one read of the inner loader shared by every caller that
// arrives while it runs. done is closed once ds and err are set.
type loadCall struct {
	done chan struct{}
	ds   *domain.Dataset
	err  error
}

// NewCachedLoader wraps a loader with process-lifetime memoization.
func NewCachedLoader(inner DatasetLoader, logger *slog.Logger, metrics *observability.Metrics) *CachedLoader {
	return &CachedLoader{
		inner:   inner,
		logger:  logger,
		metrics: metrics,
	}
}

// Load returns the memoized dataset, reading it on first use. Concurrent
// callers share a single read; each stops waiting when its own context ends.
func (c *CachedLoader) Load(ctx context.Context) (*domain.Dataset, error) {
	c.mu.Lock()
	if c.dataset != nil {
		ds := c.dataset
		c.mu.Unlock()
		c.metrics.DatasetCache.WithLabelValues("hit").Inc()
		return ds, nil
	}
	c.metrics.DatasetCache.WithLabelValues("miss").Inc()
	call := c.inflight
	if call == nil {
		call = &loadCall{done: make(chan struct{})}
		c.inflight = call
		go c.run(context.WithoutCancel(ctx), call)
	}
	c.mu.Unlock()

	select {
	case <-call.done:
		return call.ds, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run reads the dataset outside the lock and publishes the result to call.
func (c *CachedLoader) run(ctx context.Context, call *loadCall) {
	ds, err := c.inner.Load(ctx)

	c.mu.Lock()
	c.inflight = nil
	// Failed loads are not cached so a file that appears later is picked up.
	if err == nil {
		c.dataset = ds
	}
	c.mu.Unlock()

	if err == nil {
		c.metrics.DatasetRows.Set(float64(ds.Len()))
		c.logger.Info("dataset cached", "path", ds.Path, "rows", ds.Len(), "loaded_at", ds.LoadedAt)
	}
	call.ds, call.err = ds, err
	close(call.done)
}

// CheckReadiness returns nil once the dataset can be served.
func (c *CachedLoader) CheckReadiness(ctx context.Context) error {
	if _, err := c.Load(ctx); err != nil {
		if errors.Is(err, domain.ErrDatasetNotFound) {
			c.logger.Warn("dataset not available", "error", err)
		}
		return err
	}
	return nil
}
