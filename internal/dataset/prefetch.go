package dataset

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Prefetcher warms the loader for many categories concurrently, for
// `psmap fetch` and server startup. Failures are collected per
// category rather than aborting the batch: one unreachable extract
// should not keep the others cold.
type Prefetcher struct {
	loader      *Loader
	concurrency int
	logger      *slog.Logger
}

// PrefetchOption configures a Prefetcher.
type PrefetchOption func(*Prefetcher)

// WithConcurrency sets how many categories load in parallel.
// Default is 4.
func WithConcurrency(n int) PrefetchOption {
	return func(p *Prefetcher) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithPrefetchLogger sets the prefetcher's logger.
func WithPrefetchLogger(logger *slog.Logger) PrefetchOption {
	return func(p *Prefetcher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPrefetcher returns a Prefetcher over the given loader.
func NewPrefetcher(loader *Loader, opts ...PrefetchOption) *Prefetcher {
	p := &Prefetcher{
		loader:      loader,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// PrefetchResult is the outcome of warming one category.
type PrefetchResult struct {
	// Category is the requested key.
	Category string

	// Rows is the snapshot size on success.
	Rows int

	// FromCache reports whether the payload came from the cache.
	FromCache bool

	// Elapsed is how long the load took.
	Elapsed time.Duration

	// Err is the load failure, nil on success.
	Err error
}

// Prefetch loads every key, at most the configured number in parallel,
// and returns one result per key in input order. The returned error is
// only a context cancellation; per-category failures live in the
// results.
func (p *Prefetcher) Prefetch(ctx context.Context, keys []string) ([]PrefetchResult, error) {
	p.logger.Info("prefetching categories", "count", len(keys), "concurrency", p.concurrency)

	results := make([]PrefetchResult, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, key := range keys {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			start := time.Now()
			ds, err := p.loader.Load(ctx, key)
			result := PrefetchResult{
				Category: key,
				Elapsed:  time.Since(start),
				Err:      err,
			}
			if err != nil {
				p.logger.Warn("prefetch failed", "category", key, "error", err)
			} else {
				result.Rows = ds.Len()
				result.FromCache = ds.FromCache
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
