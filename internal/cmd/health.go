package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the API key, provider connection and cache",
	Long: `Validate configuration, run the /timezone connection probe and, when the
response cache is enabled, open it and check the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := observability.CLILogger
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg := *appConfig
		cfg.API.SkipProbe = false

		s, err := newSession(ctx, &cfg, true, log)
		if err != nil {
			log.Error("❌ FAIL: provider check", zap.Error(err))
			return err
		}
		defer func() { _ = s.Close() }()
		log.Info("✅ Configuration valid")
		log.Info("✅ API connection successful", zap.String("base_url", cfg.API.BaseURL))

		if s.cache != nil {
			if err := s.cache.CheckHealth(ctx); err != nil {
				log.Error("❌ FAIL: response cache", zap.Error(err))
				return err
			}
			log.Info("✅ Response cache reachable")
		}

		log.Info("✅ All health checks passed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
