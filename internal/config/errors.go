package config

import "errors"

// Configuration validation errors, returned by Config.Validate. They
// are package-level sentinels so callers can branch with errors.Is
// while still getting a readable message.
var (
	// ErrInvalidTimeout is returned when the fetch timeout is not
	// positive. A zero timeout would fail every download immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the payload cap is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidCacheBackend is returned when the cache backend is not
	// one of "memory", "sqlite" or "redis".
	ErrInvalidCacheBackend = errors.New(`invalid cache backend: must be "memory", "sqlite" or "redis"`)

	// ErrMissingRedisAddr is returned when the redis backend is
	// selected without a server address.
	ErrMissingRedisAddr = errors.New("redis cache backend selected but no redis address configured")

	// ErrInvalidConcurrency is returned when the prefetch concurrency
	// is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidSampleSize is returned when the point sample cap is
	// negative. Use 0 to disable sampling.
	ErrInvalidSampleSize = errors.New("invalid sample size: must be non-negative")
)
