// Package config provides centralized configuration management for matchlens.
// Configuration is layered through viper: built-in defaults, an optional YAML
// file, an optional .env file, MATCHLENS_* environment variables and runtime
// overrides from CLI flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/matchlens/matchlens/internal/apisports"
)

const (
	// AppName names the XDG config, data and cache directories.
	AppName = "matchlens"

	// EnvPrefix is prepended to every environment override, e.g. MATCHLENS_API_KEY.
	EnvPrefix = "MATCHLENS_"

	// DefaultEnvFile is read from the working directory when present.
	DefaultEnvFile = ".env"
)

// legacyKeyVars are accepted for the API key when no prefixed variable is set.
var legacyKeyVars = []string{"API_key", "API_KEY"}

var (
	// appConfig holds the current application configuration
	appConfig *Config
	configMu  sync.RWMutex
)

// Options selects the sources Load reads.
type Options struct {
	// ConfigFile is an explicit YAML file. When empty the XDG config
	// directory and ./config are searched for config.yaml.
	ConfigFile string

	// EnvFile is a dotenv file whose variables are exported into the process
	// environment without replacing ones already set. Defaults to .env.
	EnvFile string

	// Overrides are dotted config keys applied above every other layer.
	Overrides map[string]any
}

// Load builds the configuration from all layers and stores it for GetConfig.
// A missing config file or .env file is not an error.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		if dir := gfconfig.GetAppConfigDir(AppName); strings.TrimSpace(dir) != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath("./config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(strings.TrimSuffix(EnvPrefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.API.Key) == "" {
		cfg.API.Key = legacyAPIKey()
	}
	if cfg.Cache.Enabled && strings.TrimSpace(cfg.Cache.URL) == "" && strings.TrimSpace(cfg.Cache.Path) == "" {
		cfg.Cache.Path = DefaultCachePath()
	}

	setConfig(cfg)
	return cfg, nil
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.key", "")
	v.SetDefault("api.base_url", apisports.DefaultBaseURL)
	v.SetDefault("api.timeout", apisports.DefaultTimeout.String())
	v.SetDefault("api.max_retries", apisports.DefaultMaxRetries)
	v.SetDefault("api.request_delay", apisports.DefaultRequestDelay.String())
	v.SetDefault("api.quota_threshold", apisports.DefaultQuotaThreshold)
	v.SetDefault("api.skip_probe", false)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.url", "")
	v.SetDefault("cache.auth_token", "")
	v.SetDefault("cache.purge_schedule", "@hourly")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "simple")

	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
}

func legacyAPIKey() string {
	for _, name := range legacyKeyVars {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := gfconfig.GetAppConfigDir(AppName)
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}

// DefaultCachePath returns the XDG-compliant path to the response cache database.
func DefaultCachePath() string {
	cacheDir := gfconfig.GetAppCacheDir(AppName)
	if strings.TrimSpace(cacheDir) == "" {
		return "./" + AppName + "-cache.db"
	}
	return filepath.Join(cacheDir, "responses.db")
}
