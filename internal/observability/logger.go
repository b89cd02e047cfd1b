package observability

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/logging"
)

var (
	// CLILogger is used for CLI commands (SIMPLE profile)
	CLILogger *logging.Logger

	// ServerLogger is used for the HTTP server (STRUCTURED profile)
	ServerLogger *logging.Logger
)

// InitCLILogger initializes the CLI logger with the SIMPLE profile.
// verbose forces DEBUG regardless of level.
func InitCLILogger(serviceName, level string, verbose bool) error {
	var (
		logger *logging.Logger
		err    error
	)

	if verbose || parseLogLevel(level) == "INFO" {
		logger, err = logging.NewCLI(serviceName)
		if err == nil && verbose {
			logger.SetLevel(logging.DEBUG)
		}
	} else {
		logger, err = logging.New(&logging.LoggerConfig{
			Profile:      logging.ProfileSimple,
			DefaultLevel: parseLogLevel(level),
			Service:      serviceName,
			Environment:  "cli",
			Sinks: []logging.SinkConfig{
				{
					Type:    "console",
					Format:  "console",
					Console: &logging.ConsoleSinkConfig{Stream: "stderr"},
				},
			},
		})
	}
	if err != nil {
		return fmt.Errorf("failed to initialize CLI logger: %w", err)
	}

	CLILogger = logger
	return nil
}

// InitServerLogger initializes the server logger with the STRUCTURED profile.
func InitServerLogger(serviceName, level string) error {
	config := &logging.LoggerConfig{
		Profile:      logging.ProfileStructured,
		DefaultLevel: parseLogLevel(level),
		Service:      serviceName,
		Environment:  "production",
		StaticFields: map[string]any{"provider": "api-football"},
		Middleware: []logging.MiddlewareConfig{
			{
				Name:    "correlation",
				Enabled: true,
				Order:   100,
				Config:  make(map[string]any),
			},
		},
		Sinks: []logging.SinkConfig{
			{
				Type:   "console",
				Format: "json",
				Console: &logging.ConsoleSinkConfig{
					Stream:   "stderr",
					Colorize: false,
				},
			},
		},
		EnableCaller: true,
	}

	logger, err := logging.New(config)
	if err != nil {
		return fmt.Errorf("failed to initialize server logger: %w", err)
	}

	ServerLogger = logger
	return nil
}

// parseLogLevel converts a config log level to a gofulmen severity name.
func parseLogLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return "TRACE"
	case "debug":
		return "DEBUG"
	case "warn", "warning":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}
