package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/config"
	"github.com/matchlens/matchlens/internal/observability"
	"github.com/matchlens/matchlens/internal/output"
)

var (
	cfgFile      string
	envFile      string
	verbose      bool
	apiKey       string
	baseURL      string
	noProbe      bool
	useCache     bool
	outputFormat string
	outPath      string

	// appConfig is resolved once per invocation in loadConfig.
	appConfig *config.Config

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Fetch and flatten API-Football data",
	Long: `matchlens fetches football data from API-Football (v3) and flattens it into
tables: leagues, standings, fixtures, head-to-head records and team statistics.

The API key is read from MATCHLENS_API_KEY, the legacy API_key variable in a
.env file, the config file or --api-key.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/matchlens/config.yaml)")
	flags.StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
	flags.StringVar(&apiKey, "api-key", "", "API-Football key (overrides config and environment)")
	flags.StringVar(&baseURL, "base-url", "", "API base URL")
	flags.BoolVar(&noProbe, "no-probe", false, "skip the /timezone connection probe")
	flags.BoolVar(&useCache, "cache", false, "serve repeated requests from the local response cache")
	flags.StringVarP(&outputFormat, "format", "f", string(output.FormatTable), "output format: "+formatNames())
	flags.StringVarP(&outPath, "out", "o", "", "write output to a file instead of stdout")
}

func formatNames() string {
	names := make([]string, 0, len(output.Formats))
	for _, f := range output.Formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// loadConfig layers flags over the config file and environment, then
// initializes the CLI logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	overrides := map[string]any{}
	if cmd.Flags().Changed("api-key") {
		overrides["api.key"] = apiKey
	}
	if cmd.Flags().Changed("base-url") {
		overrides["api.base_url"] = baseURL
	}
	if cmd.Flags().Changed("no-probe") {
		overrides["api.skip_probe"] = noProbe
	}
	if cmd.Flags().Changed("cache") {
		overrides["cache.enabled"] = useCache
	}

	cfg, err := config.Load(config.Options{
		ConfigFile: cfgFile,
		EnvFile:    envFile,
		Overrides:  overrides,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	appConfig = cfg

	if err := observability.InitCLILogger(config.AppName, cfg.Logging.Level, verbose); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	observability.CLILogger.Debug("Configuration loaded",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("skip_probe", cfg.API.SkipProbe))
	return nil
}
