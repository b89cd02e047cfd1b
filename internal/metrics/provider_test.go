package metrics

import (
	"context"
	"net/url"
	"testing"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchlens/matchlens/internal/apisports"
	"github.com/matchlens/matchlens/internal/observability"
)

func setupTelemetry(t *testing.T) *telemetrytesting.FakeCollector {
	t.Helper()

	collector := telemetrytesting.NewFakeCollector()
	sys, err := telemetry.NewSystem(&telemetry.Config{Enabled: true, Emitter: collector})
	require.NoError(t, err)

	original := observability.TelemetrySystem
	observability.TelemetrySystem = sys
	t.Cleanup(func() {
		observability.TelemetrySystem = original
	})
	return collector
}

type fixedExecutor struct {
	result *apisports.Result
	err    error
}

func (f fixedExecutor) Execute(ctx context.Context, endpoint string, query url.Values) (*apisports.Result, error) {
	return f.result, f.err
}

func TestInstrumentedExecutorRecordsRequest(t *testing.T) {
	collector := setupTelemetry(t)

	want := &apisports.Result{
		Endpoint: "fixtures",
		Outcome:  apisports.OutcomeSuccess,
		Attempts: 1,
		Quota:    apisports.Quota{Remaining: 90, Limit: 100, Known: true},
		Payload:  map[string]any{"response": []any{}},
	}
	exec := Instrument(fixedExecutor{result: want})

	got, err := exec.Execute(context.Background(), "fixtures", url.Values{"league": {"39"}})
	require.NoError(t, err)
	assert.Same(t, want, got)

	assert.Greater(t, collector.CountMetricsByName(ProviderRequestsTotal), 0)
	assert.Greater(t, collector.CountMetricsByName(ProviderRequestDuration), 0)
	assert.Greater(t, collector.CountMetricsByName(ProviderAttempts), 0)
	assert.Greater(t, collector.CountMetricsByName(ProviderQuotaRemaining), 0)
	assert.Greater(t, collector.CountMetricsByName(ProviderQuotaLimit), 0)
}

func TestInstrumentedExecutorPassesErrorsThrough(t *testing.T) {
	collector := setupTelemetry(t)

	exec := Instrument(fixedExecutor{
		result: &apisports.Result{Outcome: apisports.OutcomeQuotaExhausted},
		err:    apisports.ErrQuotaExhausted,
	})

	_, err := exec.Execute(context.Background(), "standings", nil)
	require.ErrorIs(t, err, apisports.ErrQuotaExhausted)
	assert.Greater(t, collector.CountMetricsByName(ProviderRequestsTotal), 0)
	assert.Equal(t, 0, collector.CountMetricsByName(ProviderQuotaRemaining))
}

func TestRecordProviderRequestWithoutTelemetry(t *testing.T) {
	original := observability.TelemetrySystem
	observability.TelemetrySystem = nil
	t.Cleanup(func() {
		observability.TelemetrySystem = original
	})

	assert.NotPanics(t, func() {
		RecordProviderRequest("fixtures", nil, apisports.ErrUnauthorized, 0)
		RecordError("EXTERNAL_SERVICE_ERROR", 502)
		RecordPanic()
	})
}

func TestErrorMetrics(t *testing.T) {
	collector := setupTelemetry(t)

	RecordError("QUOTA_EXHAUSTED", 503)
	RecordErrorByEndpoint("/v1/fixtures", "QUOTA_EXHAUSTED")
	RecordPanic()

	assert.Greater(t, collector.CountMetricsByName(ErrorsTotalName), 0)
	assert.Greater(t, collector.CountMetricsByName(ErrorsByEndpointName), 0)
	assert.Greater(t, collector.CountMetricsByName(PanicsTotalName), 0)
}
