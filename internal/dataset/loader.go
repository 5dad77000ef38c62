package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/opensante/psmap/internal/cache"
	"github.com/opensante/psmap/internal/geo"
	"github.com/opensante/psmap/internal/metrics"
	"github.com/opensante/psmap/internal/model"
	"github.com/opensante/psmap/internal/registry"
	"golang.org/x/sync/singleflight"
)

// Loader is the read-through load pipeline: registry resolution,
// payload cache, origin fetch, decode, parse, coordinate enrichment.
// Parsed snapshots are memoized in-process for the lifetime of the
// Loader, and concurrent loads of the same category collapse into one
// fetch. Safe for concurrent use.
type Loader struct {
	registry  *registry.Registry
	fetcher   *Fetcher
	store     cache.Store
	geoTable  *geo.Table
	ttl       time.Duration
	logger    *slog.Logger
	collector *metrics.Collector

	group singleflight.Group

	mu   sync.RWMutex
	memo map[string]*model.Dataset
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache sets the payload cache consulted before the origin.
// Without one, every cold load goes to the network.
func WithCache(store cache.Store) LoaderOption {
	return func(l *Loader) {
		l.store = store
	}
}

// WithGeoTable enables coordinate enrichment of parsed rows.
func WithGeoTable(t *geo.Table) LoaderOption {
	return func(l *Loader) {
		l.geoTable = t
	}
}

// WithCacheTTL bounds the validity of published cache entries. Zero or
// negative means entries never expire.
func WithCacheTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.ttl = ttl
	}
}

// WithLogger sets the loader's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics wires fetch and cache observations into a collector.
func WithMetrics(c *metrics.Collector) LoaderOption {
	return func(l *Loader) {
		l.collector = c
	}
}

// NewLoader returns a Loader over the given registry and fetcher.
func NewLoader(reg *registry.Registry, fetcher *Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		registry: reg,
		fetcher:  fetcher,
		memo:     make(map[string]*model.Dataset),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// Load returns the snapshot for a category key. The category is
// resolved first, so an unregistered key fails with ErrUnknownCategory
// before anything is fetched. Loads of the same category share one
// in-flight fetch, and a finished snapshot is served from memory until
// Invalidate.
func (l *Loader) Load(ctx context.Context, key string) (*model.Dataset, error) {
	cat, err := l.registry.Resolve(key)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	ds, ok := l.memo[cat.Key]
	l.mu.RUnlock()
	if ok {
		return ds, nil
	}

	v, err, _ := l.group.Do(cat.Key, func() (any, error) {
		// A concurrent load may have published while this call waited
		// on the flight group.
		l.mu.RLock()
		ds, ok := l.memo[cat.Key]
		l.mu.RUnlock()
		if ok {
			return ds, nil
		}
		return l.load(ctx, cat)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Dataset), nil
}

// load runs the cold path for one category and publishes the result.
func (l *Loader) load(ctx context.Context, cat registry.Category) (*model.Dataset, error) {
	payload, fetchedAt, fromCache, err := l.payload(ctx, cat)
	if err != nil {
		l.collector.ObserveFetch(cat.Key, metrics.FetchOutcomeUnavailable)
		return nil, err
	}

	text := Decode(payload, cat.Encoding)
	ds, err := Parse(text, cat.SeparatorRune())
	if err != nil {
		l.collector.ObserveFetch(cat.Key, metrics.FetchOutcomeParseError)
		// A cached payload that no longer parses is poison; drop it so
		// the next load refetches.
		if fromCache && l.store != nil {
			if derr := l.store.Delete(ctx, cat.Key); derr != nil {
				l.logger.Warn("dropping unparsable cache entry failed", "category", cat.Key, "error", derr)
			}
		}
		return nil, err
	}

	ds.Category = cat.Key
	ds.Source = cat.URL
	ds.FetchedAt = fetchedAt
	ds.FromCache = fromCache
	for i := range ds.Records {
		ds.Records[i].Category = cat.Key
	}

	located := 0
	if l.geoTable != nil {
		located = l.geoTable.Annotate(ds.Records)
	}

	l.mu.Lock()
	l.memo[cat.Key] = ds
	l.mu.Unlock()

	l.collector.ObserveFetch(cat.Key, metrics.FetchOutcomeOK)
	l.collector.SetDatasetRows(cat.Key, ds.Len())
	l.logger.Info("dataset loaded",
		"category", cat.Key,
		"rows", ds.Len(),
		"located", located,
		"skipped", ds.SkippedRows,
		"from_cache", fromCache,
	)
	return ds, nil
}

// payload returns the raw bytes for a category, preferring the cache.
// A fresh fetch is published to the cache before parsing, fully or not
// at all.
func (l *Loader) payload(ctx context.Context, cat registry.Category) (payload []byte, fetchedAt time.Time, fromCache bool, err error) {
	if l.store != nil {
		entry, err := l.store.Get(ctx, cat.Key)
		if err != nil {
			// A broken cache backend should not take loading down;
			// fall through to the origin.
			l.logger.Warn("cache read failed", "category", cat.Key, "error", err)
		} else if entry != nil {
			l.collector.ObserveCache(cat.Key, metrics.CacheHit)
			return entry.Payload, entry.FetchedAt, true, nil
		} else {
			l.collector.ObserveCache(cat.Key, metrics.CacheMiss)
		}
	}

	payload, err = l.fetcher.Fetch(ctx, cat.URL)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	fetchedAt = time.Now().UTC()

	if l.store != nil {
		entry := &cache.Entry{
			Category:  cat.Key,
			Source:    cat.URL,
			FetchedAt: fetchedAt,
			Payload:   payload,
		}
		if err := l.store.Set(ctx, entry, l.ttl); err != nil {
			l.logger.Warn("cache write failed", "category", cat.Key, "error", err)
		}
	}
	return payload, fetchedAt, false, nil
}

// Invalidate drops the memoized snapshot and the cached payload of a
// category, so the next Load goes back to the origin.
func (l *Loader) Invalidate(ctx context.Context, key string) error {
	cat, err := l.registry.Resolve(key)
	if err != nil {
		return err
	}

	l.mu.Lock()
	delete(l.memo, cat.Key)
	l.mu.Unlock()

	if l.store != nil {
		if err := l.store.Delete(ctx, cat.Key); err != nil {
			return fmt.Errorf("drop cache entry for %s: %w", cat.Key, err)
		}
	}
	return nil
}

// Registry returns the registry the loader resolves against.
func (l *Loader) Registry() *registry.Registry {
	return l.registry
}
