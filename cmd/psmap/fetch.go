package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opensante/psmap/internal/dataset"
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [category]...",
		Short: "Download dataset extracts into the local cache",
		Long: `Fetch downloads the CSV extract of one or more categories, parses
them and stores the payloads in the local cache so later commands and
the server start warm.

Examples:
  # Fetch one category
  psmap fetch medecin

  # Fetch several categories in parallel
  psmap fetch medecin infirmier sage-femme

  # Fetch every registered category
  psmap fetch --all

  # Drop the cached copy and download again
  psmap fetch --refresh medecin`,
		Args: cobra.ArbitraryArgs,
		RunE: runFetchCmd,
	}

	addCacheFlags(cmd)
	cmd.Flags().BoolP("all", "a", false, "Fetch every registered category")
	cmd.Flags().Bool("refresh", false, "Invalidate cached copies before fetching")
	cmd.Flags().IntP("concurrency", "n", 0, "Number of categories fetched in parallel")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	refresh, err := cmd.Flags().GetBool("refresh")
	if err != nil {
		return err
	}
	if n, err := cmd.Flags().GetInt("concurrency"); err != nil {
		return err
	} else if n > 0 {
		cfg.Concurrency = n
	}

	logger := setupLogger(cfg.Verbose)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	loader, err := newLoader(cfg, store, dataset.WithLogger(logger))
	if err != nil {
		return err
	}

	keys := args
	if all {
		for _, c := range loader.Registry().Categories() {
			keys = append(keys, c.Key)
		}
	}
	if len(keys) == 0 {
		return errors.New("no categories given (name one or more, or use --all)")
	}

	if refresh {
		for _, key := range keys {
			if err := loader.Invalidate(ctx, key); err != nil {
				logger.Warn("invalidate failed", "category", key, "error", err)
			}
		}
	}

	prefetcher := dataset.NewPrefetcher(loader,
		dataset.WithConcurrency(cfg.Concurrency),
		dataset.WithPrefetchLogger(logger),
	)

	start := time.Now()
	results, err := prefetcher.Prefetch(ctx, keys)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%-28s error: %v\n", r.Category, r.Err)
			continue
		}
		origin := "origin"
		if r.FromCache {
			origin = "cache"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %8d rows  (%s, %s)\n",
			r.Category, r.Rows, origin, r.Elapsed.Round(time.Millisecond))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nFetched %d/%d categories in %s\n",
		len(results)-failed, len(results), time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d categories failed", failed, len(results))
	}
	return nil
}
