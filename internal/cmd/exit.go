package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/apisports"
)

// errConfig marks failures while resolving configuration.
var errConfig = errors.New("invalid configuration")

// exitCodeFor maps a command error to a foundry exit code. Quota exhaustion
// gets its own code so scripts can tell it apart from other failures.
func exitCodeFor(err error) foundry.ExitCode {
	switch {
	case errors.Is(err, apisports.ErrQuotaExhausted):
		return foundry.ExitExternalServiceUnavailable
	case errors.Is(err, apisports.ErrUnauthorized),
		errors.Is(err, apisports.ErrMissingAPIKey),
		errors.Is(err, errConfig):
		return foundry.ExitConfigInvalid
	default:
		return foundry.ExitFailure
	}
}

// exitMessage is the headline printed for a command error.
func exitMessage(err error) string {
	switch exitCodeFor(err) {
	case foundry.ExitExternalServiceUnavailable:
		return "API quota exhausted"
	case foundry.ExitConfigInvalid:
		return "Configuration or credentials rejected"
	default:
		return "Command failed"
	}
}

// Exit terminates the process with the exit code mapped from err.
func Exit(logger *logging.Logger, err error) {
	ExitWithCode(logger, exitCodeFor(err), exitMessage(err), err)
}

// ExitWithCode logs msg with exit code metadata and exits with exitCode.
// A nil logger writes to stderr.
func ExitWithCode(logger *logging.Logger, exitCode foundry.ExitCode, msg string, err error) {
	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v (exit code: %d)\n", msg, err, exitCode)
		os.Exit(int(exitCode))
	}

	if logger == nil {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
		fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)
		os.Exit(info.Code)
	}

	logger.Error(msg,
		zap.Int("exit_code", info.Code),
		zap.String("exit_name", info.Name),
		zap.String("exit_category", info.Category),
		zap.Error(err))
	_ = logger.Sync()
	os.Exit(info.Code)
}
