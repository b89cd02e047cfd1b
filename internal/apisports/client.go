// Package apisports executes authenticated requests against the API-Football
// v3 REST service. All endpoint traffic goes through Client.Execute, which owns
// retry, backoff, courtesy delay and the daily quota guard.
package apisports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL        = "https://v3.football.api-sports.io"
	DefaultTimeout        = 10 * time.Second
	DefaultMaxRetries     = 3
	DefaultRequestDelay   = time.Second
	DefaultQuotaThreshold = 2

	rateLimitBackoffStep = 5 * time.Second
	transientBackoff     = 2 * time.Second
	probeEndpoint        = "timezone"
	maxErrorBodyBytes    = 512
)

// Config holds the executor settings. Zero values fall back to defaults,
// except RequestDelay where zero disables the courtesy delay.
type Config struct {
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RequestDelay   time.Duration
	QuotaThreshold int
	SkipProbe      bool
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Cache stores decoded payloads keyed by endpoint and query.
type Cache interface {
	GetResponse(ctx context.Context, key string) (map[string]any, bool, error)
	SetResponse(ctx context.Context, key string, payload map[string]any, ttl time.Duration) error
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for attempt, backoff and quota events.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSleeper replaces the wait function used for backoff and courtesy delays.
func WithSleeper(sleep SleepFunc) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithCache enables payload caching. A non-positive ttl disables it.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if cache == nil || ttl <= 0 {
			return
		}
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// Client is the request executor. It is safe to share between goroutines;
// requests are serialized so the provider never sees concurrent calls.
type Client struct {
	apiKey         string
	baseURL        string
	timeout        time.Duration
	maxRetries     int
	requestDelay   time.Duration
	quotaThreshold int

	httpClient *http.Client
	logger     *logging.Logger
	sleep      SleepFunc
	cache      Cache
	cacheTTL   time.Duration

	mu sync.Mutex
}

// New builds a Client and, unless cfg.SkipProbe is set, validates the API key
// with one lightweight request.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		apiKey:         apiKey,
		baseURL:        baseURL,
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		requestDelay:   cfg.RequestDelay,
		quotaThreshold: cfg.QuotaThreshold,
		httpClient:     &http.Client{},
		sleep:          sleepContext,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.requestDelay < 0 {
		c.requestDelay = 0
	}
	if c.quotaThreshold <= 0 {
		c.quotaThreshold = DefaultQuotaThreshold
	}

	for _, opt := range opts {
		opt(c)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if !cfg.SkipProbe {
		if err := c.Probe(ctx); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Probe issues a single unretried request to confirm the API key is accepted.
// A 429 is tolerated.
func (c *Client) Probe(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, body, err := c.do(ctx, probeEndpoint, nil)
	if err != nil {
		c.warn("API connection failed", zap.Error(err))
		return fmt.Errorf("api connection failed: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		c.warn("Rate limited during connection probe; increase request delay")
		return nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &HTTPError{Endpoint: probeEndpoint, StatusCode: resp.StatusCode, Body: excerpt(body)}
	}

	c.debug("API connection successful", zap.String("base_url", c.baseURL))
	return nil
}

// Execute performs a GET against endpoint with the retry, backoff and quota
// policy. The returned Result is never nil.
//
// Errors: *HTTPError for non-429 failure statuses (not retried),
// ErrQuotaExhausted when the quota guard trips, and ctx errors. Exhausting all
// attempts is not an error; the Result is empty with OutcomeRetriesExhausted or
// OutcomeRateLimited.
func (c *Client) Execute(ctx context.Context, endpoint string, query url.Values) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint = strings.Trim(strings.TrimSpace(endpoint), "/")

	result := &Result{
		RequestID: uuid.New().String(),
		Endpoint:  endpoint,
		Outcome:   OutcomeRetriesExhausted,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(endpoint, query)
	if c.cache != nil {
		payload, ok, err := c.cache.GetResponse(ctx, key)
		if err != nil {
			c.warn("Response cache lookup failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			result.Outcome = OutcomeSuccess
			result.FromCache = true
			result.Payload = payload
			return result, nil
		}
	}

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		result.Attempts = attempt + 1
		final := attempt == c.maxRetries-1

		resp, body, err := c.do(ctx, endpoint, query)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			result.Outcome = OutcomeRetriesExhausted
			c.logTransient(endpoint, attempt, err)
			if !final {
				if err := c.sleep(ctx, transientBackoff); err != nil {
					return result, err
				}
			}
			continue
		}

		result.StatusCode = resp.StatusCode

		if resp.StatusCode == http.StatusTooManyRequests {
			result.Outcome = OutcomeRateLimited
			wait := time.Duration(attempt+1) * rateLimitBackoffStep
			c.warn("Rate limited, backing off",
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt+1),
				zap.Duration("wait", wait))
			if err := c.sleep(ctx, wait); err != nil {
				return result, err
			}
			continue
		}
		result.Outcome = OutcomeRetriesExhausted

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			result.Outcome = OutcomeHTTPError
			return result, &HTTPError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: excerpt(body)}
		}

		result.Quota = quotaFromHeaders(resp.Header)
		if result.Quota.Known {
			c.info("API quota",
				zap.String("request_id", result.RequestID),
				zap.Int("remaining", result.Quota.Remaining),
				zap.Int("limit", result.Quota.Limit))
		}
		if result.Quota.Exhausted(c.quotaThreshold) {
			result.Outcome = OutcomeQuotaExhausted
			return result, fmt.Errorf("%w: %d/%d remaining", ErrQuotaExhausted, result.Quota.Remaining, result.Quota.Limit)
		}

		payload, err := decodePayload(body)
		if err != nil {
			c.logTransient(endpoint, attempt, err)
			if !final {
				if err := c.sleep(ctx, transientBackoff); err != nil {
					return result, err
				}
			}
			continue
		}

		if c.requestDelay > 0 {
			if err := c.sleep(ctx, c.requestDelay); err != nil {
				return result, err
			}
		}

		result.Outcome = OutcomeSuccess
		result.Payload = payload

		if c.cache != nil {
			if err := c.cache.SetResponse(ctx, key, payload, c.cacheTTL); err != nil {
				c.warn("Response cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return result, nil
	}

	c.warn("Request attempts exhausted",
		zap.String("endpoint", endpoint),
		zap.Int("attempts", result.Attempts),
		zap.String("outcome", result.Outcome.String()))
	result.Payload = map[string]any{}
	return result, nil
}

func (c *Client) do(ctx context.Context, endpoint string, query url.Values) (*http.Response, []byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + "/" + endpoint
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp, body, nil
}

func (c *Client) logTransient(endpoint string, attempt int, err error) {
	msg := "API request failed"
	if isTimeout(err) {
		msg = "API request timed out"
	}
	c.warn(msg,
		zap.String("endpoint", endpoint),
		zap.Int("attempt", attempt+1),
		zap.Int("max_attempts", c.maxRetries),
		zap.Error(err))
}

func (c *Client) debug(msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.Debug(msg, fields...)
	}
}

func (c *Client) info(msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.Info(msg, fields...)
	}
}

func (c *Client) warn(msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.Warn(msg, fields...)
	}
}

func decodePayload(body []byte) (map[string]any, error) {
	payload := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func excerpt(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodyBytes {
		return text[:maxErrorBodyBytes] + "..."
	}
	return text
}

func cacheKey(endpoint string, query url.Values) string {
	if encoded := query.Encode(); encoded != "" {
		return endpoint + "?" + encoded
	}
	return endpoint
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
