package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The fetch defaults are sized for the
// annuaire santé extracts, which are tens of megabytes of CSV served
// from a static file host.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "psmap"

	// DefaultTimeout bounds one fetch of a category extract. The files
	// are large but the host is a plain CDN; a stalled transfer should
	// fail fast rather than hang a user interaction.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies psmap in HTTP requests so the
	// open-data platform can attribute the traffic.
	DefaultUserAgent = "psmap/1.0 (+https://github.com/opensante/psmap)"

	// DefaultMaxBodySize caps a fetched payload. The largest extract
	// (all professions) is around 60MB; anything far past that is a
	// wrong URL, not a dataset.
	DefaultMaxBodySize = 256 * 1024 * 1024

	// DefaultCacheTTL matches the publication cadence of the extracts:
	// the files change daily at most, so a day-old snapshot is current.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultConcurrency is the number of categories fetched in
	// parallel by the prefetcher.
	DefaultConcurrency = 4

	// DefaultAddr is the HTTP API listen address.
	DefaultAddr = ":8080"

	// DefaultSampleSize caps the rows returned for map scatter layers.
	DefaultSampleSize = 10000
)

// Cache backend names accepted by Config.CacheBackend.
const (
	CacheBackendMemory = "memory"
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
)

// Config holds all configuration options for psmap. It is populated
// from defaults, then PSMAP_* environment variables, then CLI flags,
// and passed through the application explicitly rather than read from
// globals.
type Config struct {
	// Timeout is the per-fetch timeout for dataset downloads.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with fetch requests.
	UserAgent string

	// MaxBodySize is the maximum payload size in bytes to read from
	// the origin. Zero means DefaultMaxBodySize.
	MaxBodySize int64

	// CacheBackend selects the payload cache: "memory", "sqlite" or
	// "redis".
	CacheBackend string

	// CacheTTL bounds how long a cached payload stays valid. Zero or
	// negative means entries never expire.
	CacheTTL time.Duration

	// CacheDir is the directory for the SQLite cache database.
	// Defaults to the XDG cache directory.
	CacheDir string

	// RedisAddr, RedisPassword and RedisDB configure the redis cache
	// backend. Only read when CacheBackend is "redis".
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RegistryPath is an explicit registry file path. Empty means
	// search the working directory and the XDG config directory.
	RegistryPath string

	// CommunesPath points at a full commune coordinate file to merge
	// over the embedded subset. Empty keeps the embedded data alone.
	CommunesPath string

	// Addr is the listen address of the HTTP API.
	Addr string

	// Concurrency is the number of categories the prefetcher loads in
	// parallel.
	Concurrency int

	// SampleSize caps how many rows the points surface returns.
	// Zero disables sampling.
	SampleSize int

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig returns a Config with every field at its default. Many
// defaults are non-zero, so construct through here rather than relying
// on the zero value.
func NewConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		CacheBackend: CacheBackendMemory,
		CacheTTL:     DefaultCacheTTL,
		CacheDir:     XDGCacheDir(),
		RedisAddr:    "127.0.0.1:6379",
		Addr:         DefaultAddr,
		Concurrency:  DefaultConcurrency,
		SampleSize:   DefaultSampleSize,
	}
}

// XDGConfigDir returns the psmap config directory
// (~/.config/psmap on Linux).
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the psmap cache directory
// (~/.cache/psmap on Linux).
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks the configuration and returns the first problem
// found as a sentinel error, before any fetching or serving begins.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendSQLite, CacheBackendRedis:
	default:
		return ErrInvalidCacheBackend
	}
	if c.CacheBackend == CacheBackendRedis && c.RedisAddr == "" {
		return ErrMissingRedisAddr
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.SampleSize < 0 {
		return ErrInvalidSampleSize
	}
	return nil
}
