package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/config"
	"github.com/matchlens/matchlens/internal/observability"
	"github.com/matchlens/matchlens/internal/server"
	"github.com/matchlens/matchlens/internal/store"
)

var (
	serverPort  int
	serverHost  string
	metricsOn   bool
	metricsPort int
)

// telemetryHealthChecker reports unhealthy when metrics were requested but
// the exporter is gone.
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return errors.New("telemetry system not initialized")
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the adapters over HTTP",
	Long: `Start a read-only HTTP API over the endpoint adapters:

  GET /v1/leagues, /v1/standings, /v1/fixtures, /v1/h2h,
      /v1/teams/statistics, /v1/seasons, /v1/players

Every handler accepts ?format=json|yaml|csv|markdown|table.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: reload config and log level`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}

	if err := observability.InitServerLogger(config.AppName, cfg.Logging.Level); err != nil {
		return err
	}
	logger := observability.ServerLogger

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if metricsOn {
		if err := observability.InitMetrics(config.AppName, metricsPort); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return err
		}
	}

	sess, err := newServerSession(ctx, cfg, logger)
	if err != nil {
		return err
	}

	janitor, err := store.NewJanitor(sess.cache, cfg.Cache.PurgeSchedule, logger)
	if err != nil {
		_ = sess.Close()
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	janitor.Start()

	srv := server.New(cfg.Server, sess.service, versionInfo.Version)
	srv.RegisterChecker("provider_breaker", sess.guard)
	if sess.cache != nil {
		srv.RegisterChecker("response_cache", sess.cache)
	}
	if metricsOn {
		srv.RegisterChecker("telemetry", telemetryHealthChecker{})
	}

	logger.Info("Initializing server",
		zap.String("version", versionInfo.Version),
		zap.String("addr", srv.Addr()),
		zap.Bool("cache", sess.cache != nil),
		zap.Bool("metrics", metricsOn),
		zap.Int("metrics_port", observability.GetMetricsPort()))

	// LIFO: the HTTP server stops first, the logger flushes last.
	signals.OnShutdown(func(ctx context.Context) error {
		_ = logger.Sync()
		return nil
	})
	signals.OnShutdown(func(ctx context.Context) error {
		janitor.Stop()
		observability.ShutdownMetrics()
		return sess.Close()
	})
	signals.OnShutdown(func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	})

	signals.OnReload(func(ctx context.Context) error {
		reloaded, err := config.Load(config.Options{ConfigFile: cfgFile, EnvFile: envFile})
		if err != nil {
			logger.Error("Config reload failed", zap.Error(err))
			return err
		}
		if err := observability.InitServerLogger(config.AppName, reloaded.Logging.Level); err != nil {
			return err
		}
		observability.ServerLogger.Info("Configuration reloaded",
			zap.String("log_level", reloaded.Logging.Level))
		return nil
	})

	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}

	errChan := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()
	go func() {
		if err := signals.Listen(ctx); err != nil {
			logger.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	return <-errChan
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "server port")
	serveCmd.Flags().BoolVar(&metricsOn, "metrics", false, "start the Prometheus exporter and proxy it at /metrics")
	serveCmd.Flags().IntVar(&metricsPort, "metrics-port", observability.DefaultMetricsPort, "Prometheus exporter port")
}
