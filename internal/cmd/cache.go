package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matchlens/matchlens/internal/config"
	"github.com/matchlens/matchlens/internal/football"
	"github.com/matchlens/matchlens/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the local response cache",
}

// withCache opens the configured cache regardless of cache.enabled.
func withCache(cmd *cobra.Command, fn func(ctx context.Context, db *store.Store, out *renderer) error) error {
	out, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if appConfig == nil {
		return fmt.Errorf("%w: configuration not loaded", errConfig)
	}

	cfg := appConfig.Cache
	if cfg.Path == "" && cfg.URL == "" {
		cfg.Path = config.DefaultCachePath()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return fn(ctx, db, out)
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached entries per endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, db *store.Store, out *renderer) error {
			stats, err := db.Stats(ctx)
			if err != nil {
				return err
			}
			return out.table(statsTable(stats))
		})
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, db *store.Store, out *renderer) error {
			n, err := db.PurgeExpired(ctx)
			if err != nil {
				return err
			}
			return out.write(fmt.Sprintf("Purged %d expired entries", n))
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCache(cmd, func(ctx context.Context, db *store.Store, out *renderer) error {
			n, err := db.Clear(ctx)
			if err != nil {
				return err
			}
			return out.write(fmt.Sprintf("Cleared %d entries", n))
		})
	},
}

func statsTable(stats *store.Stats) *football.Table {
	t := &football.Table{Columns: []string{"endpoint", "entries"}}
	if stats == nil {
		return t
	}
	endpoints := make([]string, 0, len(stats.ByEndpoint))
	for endpoint := range stats.ByEndpoint {
		endpoints = append(endpoints, endpoint)
	}
	sort.Strings(endpoints)
	for _, endpoint := range endpoints {
		t.Rows = append(t.Rows, football.Record{"endpoint": endpoint, "entries": stats.ByEndpoint[endpoint]})
	}
	t.Rows = append(t.Rows,
		football.Record{"endpoint": "(expired)", "entries": stats.Expired},
		football.Record{"endpoint": "(total)", "entries": stats.Entries},
	)
	return t
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd, cacheClearCmd)
}
