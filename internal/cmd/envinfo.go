package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/config"
	"github.com/matchlens/matchlens/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display version, runtime and resolved configuration. The API key is masked.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := observability.CLILogger
		version := crucible.GetVersion()
		cfg := appConfig

		log.Info("=== matchlens Environment Information ===")
		log.Info("Application:")
		log.Info("  Version:    " + versionInfo.Version)
		log.Info("  Commit:     " + versionInfo.Commit)
		log.Info("  Built:      " + versionInfo.BuildDate)
		log.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		log.Info("Runtime:")
		log.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		log.Info("  Platform:   " + runtime.GOOS + "/" + runtime.GOARCH)

		if cfg == nil {
			return
		}
		log.Info("API:")
		log.Info("  Base URL:        " + cfg.API.BaseURL)
		log.Info("  API Key:         " + maskKey(cfg.API.Key))
		log.Info("  Timeout:         " + cfg.API.Timeout.String())
		log.Info(fmt.Sprintf("  Max Retries:     %d", cfg.API.MaxRetries))
		log.Info("  Request Delay:   " + cfg.API.RequestDelay.String())
		log.Info(fmt.Sprintf("  Quota Threshold: %d", cfg.API.QuotaThreshold))
		log.Info("Cache:")
		log.Info(fmt.Sprintf("  Enabled:         %t", cfg.Cache.Enabled))
		log.Info("  TTL:             " + cfg.Cache.TTL.String())
		if cfg.Cache.URL != "" {
			log.Info("  URL:             " + cfg.Cache.URL)
		} else {
			log.Info("  Path:            " + cfg.Cache.Path)
		}
		log.Info("Server:")
		log.Info(fmt.Sprintf("  Address:         %s:%d", cfg.Server.Host, cfg.Server.Port))
		log.Info("  Config File:     " + config.DefaultConfigPath())
	},
}

// maskKey keeps the last four characters of the key.
func maskKey(key string) string {
	switch {
	case key == "":
		return "(not set)"
	case len(key) <= 4:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}
