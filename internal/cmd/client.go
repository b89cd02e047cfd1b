package cmd

import (
	"context"
	"fmt"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/apisports"
	"github.com/matchlens/matchlens/internal/config"
	"github.com/matchlens/matchlens/internal/football"
	"github.com/matchlens/matchlens/internal/metrics"
	"github.com/matchlens/matchlens/internal/resilience"
	"github.com/matchlens/matchlens/internal/store"
)

// session bundles the executor stack for one command run.
type session struct {
	client  *apisports.Client
	service *football.Service
	cache   *store.Store
	guard   *resilience.GuardedExecutor
}

func (s *session) Close() error {
	if s == nil || s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// openCache opens and migrates the response cache when it is enabled.
func openCache(ctx context.Context, cfg config.CacheConfig) (*store.Store, error) {
	db, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate response cache: %w", err)
	}
	return db, nil
}

// newSession validates the configuration, opens the optional cache and
// builds the probed client. withCache=false bypasses the cache even when
// enabled.
func newSession(ctx context.Context, cfg *config.Config, withCache bool, logger *logging.Logger) (*session, error) {
	return buildSession(ctx, cfg, withCache, false, logger)
}

// newServerSession is newSession with a circuit breaker in front of the
// client, for long-running processes.
func newServerSession(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*session, error) {
	return buildSession(ctx, cfg, true, true, logger)
}

func buildSession(ctx context.Context, cfg *config.Config, withCache, guarded bool, logger *logging.Logger) (*session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration not loaded", errConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}

	s := &session{}
	opts := []apisports.Option{apisports.WithLogger(logger)}

	if withCache && cfg.Cache.Enabled {
		db, err := openCache(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}
		s.cache = db
		opts = append(opts, apisports.WithCache(db, cfg.Cache.TTL))
		if logger != nil {
			logger.Debug("Response cache enabled", zap.Duration("ttl", cfg.Cache.TTL))
		}
	}

	client, err := apisports.New(ctx, cfg.ClientConfig(), opts...)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.client = client

	var exec football.Executor = client
	if guarded {
		s.guard = resilience.Guard(client, resilience.Settings{Logger: logger})
		exec = s.guard
	}
	s.service = football.NewService(metrics.Instrument(exec), logger)
	return s, nil
}
