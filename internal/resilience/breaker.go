// Package resilience guards the provider with a circuit breaker so a failing
// API is not hammered by every incoming HTTP request.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/apisports"
)

const (
	DefaultFailureThreshold = 5
	DefaultOpenTimeout      = 30 * time.Second
)

// ErrCircuitOpen is returned while the breaker rejects requests.
var ErrCircuitOpen = errors.New("provider circuit open")

// errUnavailable marks an empty result from exhausted retries so the breaker
// counts it; callers never see it.
var errUnavailable = errors.New("provider unavailable")

// Executor is the request surface being guarded.
type Executor interface {
	Execute(ctx context.Context, endpoint string, query url.Values) (*apisports.Result, error)
}

// Settings tunes the breaker. Zero values use the defaults.
type Settings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	Logger           *logging.Logger
}

// GuardedExecutor trips after FailureThreshold consecutive provider failures
// and rejects requests for OpenTimeout before letting a trial request through.
type GuardedExecutor struct {
	next    Executor
	breaker *gobreaker.CircuitBreaker
}

// Guard wraps next in a circuit breaker.
func Guard(next Executor, settings Settings) *GuardedExecutor {
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = DefaultFailureThreshold
	}
	timeout := settings.OpenTimeout
	if timeout <= 0 {
		timeout = DefaultOpenTimeout
	}
	logger := settings.Logger

	return &GuardedExecutor{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "api-football",
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: countsAsSuccess,
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				if logger != nil {
					logger.Warn("Circuit breaker state changed",
						zap.String("breaker", name),
						zap.String("from", from.String()),
						zap.String("to", to.String()))
				}
			},
		}),
	}
}

// countsAsSuccess keeps caller and account problems from tripping the
// breaker: only transport failures, 5xx and exhausted retries count.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	var httpErr *apisports.HTTPError
	switch {
	case errors.Is(err, apisports.ErrQuotaExhausted),
		errors.Is(err, apisports.ErrUnauthorized),
		errors.Is(err, context.Canceled):
		return true
	case errors.As(err, &httpErr):
		return httpErr.StatusCode < http.StatusInternalServerError
	}
	return false
}

// Execute runs the request through the breaker.
func (g *GuardedExecutor) Execute(ctx context.Context, endpoint string, query url.Values) (*apisports.Result, error) {
	var result *apisports.Result
	_, err := g.breaker.Execute(func() (interface{}, error) {
		var execErr error
		result, execErr = g.next.Execute(ctx, endpoint, query)
		if execErr == nil && result != nil && result.Outcome != apisports.OutcomeSuccess {
			return result, errUnavailable
		}
		return result, execErr
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &apisports.Result{Endpoint: endpoint, Outcome: apisports.OutcomeRetriesExhausted, Payload: map[string]any{}},
			fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	case errors.Is(err, errUnavailable):
		return result, nil
	}
	return result, err
}

// State reports the breaker state, e.g. for health checks.
func (g *GuardedExecutor) State() gobreaker.State {
	return g.breaker.State()
}

// CheckHealth fails while the breaker is open.
func (g *GuardedExecutor) CheckHealth(ctx context.Context) error {
	if g.breaker.State() == gobreaker.StateOpen {
		return ErrCircuitOpen
	}
	return nil
}
