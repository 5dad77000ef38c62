package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opensante/psmap/internal/config"
	"github.com/opensante/psmap/internal/dataset"
	"github.com/opensante/psmap/internal/metrics"
	"github.com/opensante/psmap/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset API over HTTP",
		Long: `Serve starts the HTTP API that map and dashboard frontends query:
category listings, filtered practitioner pages, scatter points,
aggregate statistics, heatmap grids and file exports.

Prometheus metrics are exposed on /metrics and liveness on /healthz.

Examples:
  # Serve on the default address
  psmap serve

  # Serve on a specific port with pre-warmed categories
  psmap serve --addr :9000 --prefetch medecin --prefetch infirmier

  # Use a shared redis cache
  psmap serve --cache redis --redis-addr 10.0.0.5:6379`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addCacheFlags(cmd)
	cmd.Flags().String("addr", config.DefaultAddr, "HTTP listen address")
	cmd.Flags().StringArray("prefetch", nil, "Category to warm before serving (repeatable)")
	cmd.Flags().Int("sample-size", config.DefaultSampleSize,
		"Maximum points returned by the scatter endpoint (0 disables sampling)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr, err = cmd.Flags().GetString("addr")
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("sample-size") {
		cfg.SampleSize, err = cmd.Flags().GetInt("sample-size")
		if err != nil {
			return err
		}
	}
	prefetch, err := cmd.Flags().GetStringArray("prefetch")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Verbose)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping...")
		cancel()
	}()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	collector, err := metrics.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	loader, err := newLoader(cfg, store,
		dataset.WithLogger(logger),
		dataset.WithMetrics(collector),
	)
	if err != nil {
		return err
	}

	if len(prefetch) > 0 {
		prefetcher := dataset.NewPrefetcher(loader,
			dataset.WithConcurrency(cfg.Concurrency),
			dataset.WithPrefetchLogger(logger),
		)
		results, err := prefetcher.Prefetch(ctx, prefetch)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				// A cold category is served lazily on first request.
				logger.Warn("prefetch failed", "category", r.Category, "error", r.Err)
				continue
			}
			logger.Info("category warmed", "category", r.Category, "rows", r.Rows)
		}
	}

	srv := server.New(loader,
		server.WithLogger(logger),
		server.WithMetrics(collector),
		server.WithSampleSize(cfg.SampleSize),
	)
	return srv.ListenAndServe(ctx, cfg.Addr)
}
