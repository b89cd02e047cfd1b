package metrics

import (
	"context"
	"net/url"
	"time"

	"github.com/matchlens/matchlens/internal/apisports"
	"github.com/matchlens/matchlens/internal/observability"
)

// Provider metric names
const (
	ProviderRequestsTotal   = "provider_requests_total"
	ProviderRequestDuration = "provider_request_duration_ms"
	ProviderAttempts        = "provider_request_attempts"
	ProviderQuotaRemaining  = "provider_quota_remaining"
	ProviderQuotaLimit      = "provider_quota_limit"
)

// Executor is the request surface being instrumented.
type Executor interface {
	Execute(ctx context.Context, endpoint string, query url.Values) (*apisports.Result, error)
}

// InstrumentedExecutor records one metric set per provider request.
type InstrumentedExecutor struct {
	next Executor
}

// Instrument wraps next so every Execute call is measured.
func Instrument(next Executor) *InstrumentedExecutor {
	return &InstrumentedExecutor{next: next}
}

// Execute delegates to the wrapped executor.
func (e *InstrumentedExecutor) Execute(ctx context.Context, endpoint string, query url.Values) (*apisports.Result, error) {
	start := time.Now()
	result, err := e.next.Execute(ctx, endpoint, query)
	RecordProviderRequest(endpoint, result, err, time.Since(start))
	return result, err
}

// RecordProviderRequest records the outcome, latency and observed quota of one request.
func RecordProviderRequest(endpoint string, result *apisports.Result, err error, duration time.Duration) {
	sys := observability.TelemetrySystem
	if sys == nil {
		return
	}

	outcome := "error"
	cache := "miss"
	if result != nil {
		outcome = result.Outcome.String()
		if result.FromCache {
			cache = "hit"
		}
	}
	labels := map[string]string{
		"endpoint": endpoint,
		"outcome":  outcome,
		"cache":    cache,
	}
	_ = sys.Counter(ProviderRequestsTotal, 1, labels)
	_ = sys.Histogram(ProviderRequestDuration, duration, map[string]string{"endpoint": endpoint})

	if result == nil {
		return
	}
	_ = sys.Gauge(ProviderAttempts, float64(result.Attempts), map[string]string{"endpoint": endpoint})
	if result.Quota.Known {
		_ = sys.Gauge(ProviderQuotaRemaining, float64(result.Quota.Remaining), nil)
		_ = sys.Gauge(ProviderQuotaLimit, float64(result.Quota.Limit), nil)
	}
}
