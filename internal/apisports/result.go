package apisports

import (
	"errors"
	"fmt"
)

// Outcome classifies how a request attempt sequence ended.
type Outcome int

const (
	OutcomeSuccess          Outcome = 0
	OutcomeRateLimited      Outcome = 1
	OutcomeQuotaExhausted   Outcome = 2
	OutcomeHTTPError        Outcome = 3
	OutcomeRetriesExhausted Outcome = 4
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeQuotaExhausted:
		return "quota_exhausted"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeRetriesExhausted:
		return "retries_exhausted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

var (
	// ErrMissingAPIKey is returned when a client is built without credentials.
	ErrMissingAPIKey = errors.New("api key is required")

	// ErrUnauthorized is returned when the provider rejects the API key.
	ErrUnauthorized = errors.New("api key is invalid")

	// ErrQuotaExhausted is returned when the provider reports fewer remaining
	// requests than the configured threshold. Callers running batch jobs should stop.
	ErrQuotaExhausted = errors.New("daily request quota exhausted")
)

// HTTPError reports a non-429 failure status from the provider.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Quota is the request allowance reported by the provider on a response.
type Quota struct {
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
	Known     bool `json:"known"`
}

// Exhausted reports whether remaining requests dropped below threshold.
// Unknown quotas are never exhausted.
func (q Quota) Exhausted(threshold int) bool {
	return q.Known && q.Remaining < threshold
}

// Result is the typed outcome of Execute.
type Result struct {
	RequestID  string         `json:"request_id"`
	Endpoint   string         `json:"endpoint"`
	Outcome    Outcome        `json:"outcome"`
	StatusCode int            `json:"status_code,omitempty"`
	Attempts   int            `json:"attempts"`
	Quota      Quota          `json:"quota"`
	FromCache  bool           `json:"from_cache"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Empty reports whether the result carries no usable payload. A legitimately
// empty provider response and a swallowed failure both count as empty; Outcome
// tells them apart.
func (r *Result) Empty() bool {
	return r == nil || len(r.Payload) == 0
}
