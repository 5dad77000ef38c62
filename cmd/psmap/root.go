// Package main provides the entry point for the psmap CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/opensante/psmap/internal/cache"
	"github.com/opensante/psmap/internal/config"
	"github.com/opensante/psmap/internal/dataset"
	"github.com/opensante/psmap/internal/geo"
	"github.com/opensante/psmap/internal/log"
	"github.com/opensante/psmap/internal/registry"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for psmap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "psmap",
		Short: "Explore the French health-professionals directory",
		Long: `psmap fetches the annuaire santé CSV extracts published on
data.gouv.fr, filters and aggregates them, and serves them to map and
dashboard frontends.

Dataset sources are organized in categories, one per profession. Run
"psmap categories" to list them, and "psmap init" to generate a
registry file for custom sources.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("registry", "r", "",
		"Registry file path (default: registry.yaml in current or config directory)")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewCategoriesCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// addCacheFlags registers the cache flags shared by the commands that
// load datasets.
func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().String("cache", config.CacheBackendSQLite,
		"Cache backend: memory, sqlite or redis")
	cmd.Flags().String("cache-dir", "",
		"Directory for the sqlite cache (default: XDG cache directory)")
	cmd.Flags().Duration("cache-ttl", config.DefaultCacheTTL,
		"How long a cached extract stays valid (0 disables expiry)")
	cmd.Flags().String("redis-addr", "",
		"Redis address for the redis cache backend (e.g. 127.0.0.1:6379)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for one extract download")
	cmd.Flags().String("communes", "",
		"Commune coordinate CSV merged over the embedded subset")
}

// buildConfig layers configuration: defaults, then PSMAP_* environment
// variables, then the flags the user actually set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	// The CLI persists extracts across invocations by default; the
	// in-memory cache only makes sense for the library and tests.
	cfg.CacheBackend = config.CacheBackendSQLite
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if getVerboseFlag(cmd) {
		cfg.Verbose = true
	}

	var err error
	if cmd.Root().PersistentFlags().Changed("registry") {
		cfg.RegistryPath, err = cmd.Root().PersistentFlags().GetString("registry")
		if err != nil {
			return nil, err
		}
	}

	// Only flags the user actually set override the environment.
	if cmd.Flags().Changed("cache") {
		if cfg.CacheBackend, err = cmd.Flags().GetString("cache"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("cache-dir") {
		if cfg.CacheDir, err = cmd.Flags().GetString("cache-dir"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("cache-ttl") {
		if cfg.CacheTTL, err = cmd.Flags().GetDuration("cache-ttl"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("redis-addr") {
		if cfg.RedisAddr, err = cmd.Flags().GetString("redis-addr"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("communes") {
		if cfg.CommunesPath, err = cmd.Flags().GetString("communes"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// openStore builds the payload cache named by the configuration.
func openStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		return cache.NewMemory(), nil
	case config.CacheBackendSQLite:
		store, err := cache.OpenSQLite(cfg.CacheDir, cache.DefaultSQLiteOptions())
		if err != nil {
			return nil, fmt.Errorf("open cache database: %w", err)
		}
		return store, nil
	case config.CacheBackendRedis:
		store, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, nil
	default:
		return nil, config.ErrInvalidCacheBackend
	}
}

// newLoader assembles the dataset pipeline: registry, fetcher, cache
// and coordinate enrichment.
func newLoader(cfg *config.Config, store cache.Store, opts ...dataset.LoaderOption) (*dataset.Loader, error) {
	registryPath := registry.FindFile(cfg.RegistryPath, config.XDGConfigDir())
	if registryPath == "" && cfg.RegistryPath != "" {
		return nil, fmt.Errorf("registry file not found: %s", cfg.RegistryPath)
	}
	reg, err := registry.Load(registryPath)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	table, err := geo.NewTable()
	if err != nil {
		return nil, fmt.Errorf("load coordinate table: %w", err)
	}
	if cfg.CommunesPath != "" {
		f, err := os.Open(cfg.CommunesPath)
		if err != nil {
			return nil, fmt.Errorf("open commune file: %w", err)
		}
		defer f.Close()
		if err := table.LoadCommunes(f); err != nil {
			return nil, fmt.Errorf("load commune file %s: %w", cfg.CommunesPath, err)
		}
	}

	fetcher := dataset.NewFetcher(
		dataset.WithUserAgent(cfg.UserAgent),
		dataset.WithMaxBodySize(cfg.MaxBodySize),
		dataset.WithTimeout(cfg.Timeout),
	)

	loaderOpts := []dataset.LoaderOption{
		dataset.WithGeoTable(table),
		dataset.WithCacheTTL(cfg.CacheTTL),
	}
	if store != nil {
		loaderOpts = append(loaderOpts, dataset.WithCache(store))
	}
	loaderOpts = append(loaderOpts, opts...)

	return dataset.NewLoader(reg, fetcher, loaderOpts...), nil
}

// setupLogger creates the structured logger every command logs through.
// Record attributes that carry personal data are masked.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}
