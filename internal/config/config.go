package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/matchlens/matchlens/internal/apisports"
)

// Config represents the complete application configuration.
// Layers, lowest to highest precedence:
// built-in defaults, YAML config file, .env file, MATCHLENS_* environment, runtime overrides.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// APIConfig contains the API-Football provider settings.
type APIConfig struct {
	Key            string        `mapstructure:"key"`
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RequestDelay   time.Duration `mapstructure:"request_delay"`
	QuotaThreshold int           `mapstructure:"quota_threshold"`
	SkipProbe      bool          `mapstructure:"skip_probe"`
}

// CacheConfig contains the optional response cache settings.
// The cache is backed by libsql: a local file via Path, or a remote
// database via URL and AuthToken.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	TTL       time.Duration `mapstructure:"ttl"`
	Path      string        `mapstructure:"path"`
	URL       string        `mapstructure:"url"`
	AuthToken string        `mapstructure:"auth_token"`

	// PurgeSchedule is a cron spec for deleting expired entries while
	// serving. Empty disables the job.
	PurgeSchedule string `mapstructure:"purge_schedule"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Level controls the minimum log level
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Profile selects the logging complexity level
	// Valid values: simple, structured
	Profile string `mapstructure:"profile"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Validate reports configuration that cannot produce a working client.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.Key) == "" {
		return fmt.Errorf("set api.key, %sAPI_KEY or API_key in .env: %w", EnvPrefix, apisports.ErrMissingAPIKey)
	}
	if c.API.MaxRetries < 1 {
		return fmt.Errorf("api.max_retries must be at least 1, got %d", c.API.MaxRetries)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.API.RequestDelay < 0 {
		return fmt.Errorf("api.request_delay must not be negative, got %s", c.API.RequestDelay)
	}
	return nil
}

// ClientConfig converts the API section into executor settings.
func (c *Config) ClientConfig() apisports.Config {
	return apisports.Config{
		APIKey:         strings.TrimSpace(c.API.Key),
		BaseURL:        c.API.BaseURL,
		Timeout:        c.API.Timeout,
		MaxRetries:     c.API.MaxRetries,
		RequestDelay:   c.API.RequestDelay,
		QuotaThreshold: c.API.QuotaThreshold,
		SkipProbe:      c.API.SkipProbe,
	}
}
