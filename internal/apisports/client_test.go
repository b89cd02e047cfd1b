package apisports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSleeper struct {
	waits []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func newTestClient(t *testing.T, server *httptest.Server, sleeper *recordingSleeper, cfg Config, opts ...Option) *Client {
	t.Helper()

	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	cfg.BaseURL = server.URL
	cfg.SkipProbe = true

	opts = append([]Option{WithHTTPClient(server.Client()), WithSleeper(sleeper.Sleep)}, opts...)
	client, err := New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	return client
}

func TestExecuteSendsKeyAndQuery(t *testing.T) {
	var gotKey, gotPath string
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-apisports-key")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"response":[{"league":{"id":39}}]}`))
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(t, server, sleeper, Config{APIKey: "secret", RequestDelay: 1500 * time.Millisecond})

	result, err := client.Execute(context.Background(), "teams/statistics", url.Values{"league": {"39"}, "season": {"2024"}})
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "/teams/statistics", gotPath)
	assert.Equal(t, "39", gotQuery.Get("league"))
	assert.Equal(t, "2024", gotQuery.Get("season"))

	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 1, result.Attempts)
	assert.NotEmpty(t, result.RequestID)
	assert.False(t, result.Empty())
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, sleeper.waits)
}

func TestExecuteRateLimitBackoff(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"response":[1,2]}`))
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(t, server, sleeper, Config{RequestDelay: -1})

	result, err := client.Execute(context.Background(), "fixtures", nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, sleeper.waits)
	assert.Len(t, result.Payload["response"], 2)
}

func TestExecuteRateLimitedEveryAttempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(t, server, sleeper, Config{})

	result, err := client.Execute(context.Background(), "fixtures", nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRateLimited, result.Outcome)
	assert.True(t, result.Empty())
	assert.NotNil(t, result.Payload)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 15 * time.Second}, sleeper.waits)
}

func TestExecuteHTTPErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := newTestClient(t, server, &recordingSleeper{}, Config{})

	result, err := client.Execute(context.Background(), "standings", nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "boom", httpErr.Body)
	assert.Equal(t, OutcomeHTTPError, result.Outcome)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestExecuteTransientFailuresExhaustRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(t, server, sleeper, Config{})

	result, err := client.Execute(context.Background(), "leagues", nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRetriesExhausted, result.Outcome)
	assert.Equal(t, 3, result.Attempts)
	assert.True(t, result.Empty())
	// No wait after the final attempt.
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeper.waits)
}

func TestExecuteTimeoutRetries(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	sleeper := &recordingSleeper{}
	client := newTestClient(t, server, sleeper, Config{Timeout: 20 * time.Millisecond, MaxRetries: 2})

	result, err := client.Execute(context.Background(), "fixtures", nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRetriesExhausted, result.Outcome)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, []time.Duration{2 * time.Second}, sleeper.waits)
}

func TestExecuteQuotaGuard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ratelimit-requests-remaining", "1")
		w.Header().Set("x-ratelimit-requests-limit", "100")
		_, _ = w.Write([]byte(`{"response":[{"fixture":{"id":1}}]}`))
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(t, server, sleeper, Config{})

	result, err := client.Execute(context.Background(), "fixtures", nil)
	require.ErrorIs(t, err, ErrQuotaExhausted)
	assert.Equal(t, OutcomeQuotaExhausted, result.Outcome)
	assert.Nil(t, result.Payload)
	assert.Equal(t, Quota{Remaining: 1, Limit: 100, Known: true}, result.Quota)
	assert.Empty(t, sleeper.waits)
}

func TestExecuteQuotaHeadersAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ratelimit-requests-remaining", "0")
		_, _ = w.Write([]byte(`{"response":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, &recordingSleeper{}, Config{})

	result, err := client.Execute(context.Background(), "fixtures", nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.False(t, result.Quota.Known)
}

type memoryCache struct {
	entries map[string]map[string]any
	sets    int
}

func (m *memoryCache) GetResponse(ctx context.Context, key string) (map[string]any, bool, error) {
	payload, ok := m.entries[key]
	return payload, ok, nil
}

func (m *memoryCache) SetResponse(ctx context.Context, key string, payload map[string]any, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string]map[string]any)
	}
	m.entries[key] = payload
	m.sets++
	return nil
}

func TestExecuteUsesCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"response":[2023,2024]}`))
	}))
	defer server.Close()

	cache := &memoryCache{}
	client := newTestClient(t, server, &recordingSleeper{}, Config{}, WithCache(cache, time.Hour))

	query := url.Values{"season": {"2024"}, "league": {"39"}}
	first, err := client.Execute(context.Background(), "seasons", query)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := client.Execute(context.Background(), "seasons", query)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Contains(t, cache.entries, "seasons?league=39&season=2024")
}

func TestProbe(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		wantErr error
		anyErr  bool
	}{
		{name: "Success", status: http.StatusOK},
		{name: "RateLimitedTolerated", status: http.StatusTooManyRequests},
		{name: "Unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "OtherFailure", status: http.StatusForbidden, anyErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var path string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client, err := New(context.Background(), Config{APIKey: "k", BaseURL: server.URL}, WithHTTPClient(server.Client()))
			assert.Equal(t, "/timezone", path)

			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, client)
			case tc.anyErr:
				var httpErr *HTTPError
				require.True(t, errors.As(err, &httpErr))
				assert.Equal(t, tc.status, httpErr.StatusCode)
			default:
				require.NoError(t, err)
				require.NotNil(t, client)
			}
		})
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{APIKey: "  "})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
