package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/apisports"
	"github.com/matchlens/matchlens/internal/metrics"
	"github.com/matchlens/matchlens/internal/observability"
	"github.com/matchlens/matchlens/internal/resilience"
	"github.com/matchlens/matchlens/internal/server/middleware"
)

// Error codes returned by the HTTP surface.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeQuotaExhausted     = "QUOTA_EXHAUSTED"
	CodeProviderAuth       = "PROVIDER_AUTH_FAILED"
	CodeExternalService    = "EXTERNAL_SERVICE_ERROR"
	CodeTimeout            = "TIMEOUT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

func NewInvalidInputError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeInvalidInput, message)
}

func NewNotFoundError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeNotFound, message)
}

func NewMethodNotAllowedError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeMethodNotAllowed, message)
}

func NewServiceUnavailableError(message string) *errors.ErrorEnvelope {
	return errors.NewErrorEnvelope(CodeServiceUnavailable, message)
}

// WrapInvalidInput builds a 400 envelope carrying the request's correlation ID.
func WrapInvalidInput(ctx context.Context, err error, message string) *errors.ErrorEnvelope {
	return wrap(ctx, CodeInvalidInput, err, message, nil)
}

// FromProviderError classifies an executor or adapter error.
func FromProviderError(ctx context.Context, err error) *errors.ErrorEnvelope {
	var httpErr *apisports.HTTPError

	switch {
	case stderrors.Is(err, apisports.ErrQuotaExhausted):
		env := wrap(ctx, CodeQuotaExhausted, err, "daily API quota is exhausted", nil)
		env, _ = env.WithSeverity(errors.SeverityMedium)
		return env
	case stderrors.Is(err, apisports.ErrUnauthorized):
		env := wrap(ctx, CodeProviderAuth, err, "provider rejected the configured API key", nil)
		env, _ = env.WithSeverity(errors.SeverityCritical)
		return env
	case stderrors.As(err, &httpErr):
		env := wrap(ctx, CodeExternalService, err, "provider request failed", map[string]interface{}{
			"provider_status":   httpErr.StatusCode,
			"provider_endpoint": httpErr.Endpoint,
		})
		env, _ = env.WithSeverity(errors.SeverityHigh)
		return env
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		env := wrap(ctx, CodeServiceUnavailable, err, "provider temporarily unavailable", nil)
		env, _ = env.WithSeverity(errors.SeverityMedium)
		return env
	case stderrors.Is(err, context.DeadlineExceeded):
		return wrap(ctx, CodeTimeout, err, "provider request timed out", nil)
	default:
		env := wrap(ctx, CodeInternal, err, "unexpected error", nil)
		env, _ = env.WithSeverity(errors.SeverityHigh)
		return env
	}
}

func wrap(ctx context.Context, code string, err error, message string, extra map[string]interface{}) *errors.ErrorEnvelope {
	correlationID := extractCorrelationID(ctx)
	envelope := errors.NewErrorEnvelope(code, message)
	envelope = envelope.WithCorrelationID(correlationID)
	envelope = envelope.WithTraceID(correlationID)
	return withContext(envelope, err, extra)
}

// extractCorrelationID gets correlation ID from context, falls back to generating new UUID
func extractCorrelationID(ctx context.Context) string {
	if ctx != nil {
		if requestID := middleware.GetRequestID(ctx); requestID != "" {
			return requestID
		}
	}
	return uuid.New().String()
}

// EnsureEnvelope normalizes any error into a gofulmen ErrorEnvelope.
func EnsureEnvelope(err error) *errors.ErrorEnvelope {
	if err == nil {
		env := errors.NewErrorEnvelope(CodeInternal, "unexpected nil error")
		env, _ = env.WithSeverity(errors.SeverityCritical)
		return env
	}

	var envelope *errors.ErrorEnvelope
	if stderrors.As(err, &envelope) && envelope != nil {
		return envelope
	}

	return FromProviderError(context.Background(), err)
}

// EnsureCorrelationID attaches a correlation ID to the envelope using the context when available.
func EnsureCorrelationID(envelope *errors.ErrorEnvelope, ctx context.Context) *errors.ErrorEnvelope {
	if envelope == nil || envelope.CorrelationID != "" {
		return envelope
	}

	var correlationID string
	if ctx != nil {
		correlationID = middleware.GetRequestID(ctx)
	}
	if correlationID == "" {
		correlationID = "fallback-" + errors.GenerateCorrelationID()
	}

	return envelope.WithCorrelationID(correlationID)
}

// HTTPStatusFromCode resolves the HTTP status code corresponding to an error code.
func HTTPStatusFromCode(code string) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeQuotaExhausted:
		return http.StatusTooManyRequests
	case CodeProviderAuth, CodeExternalService:
		return http.StatusBadGateway
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func withContext(envelope *errors.ErrorEnvelope, err error, extra map[string]interface{}) *errors.ErrorEnvelope {
	if envelope == nil || (err == nil && len(extra) == 0) {
		return envelope
	}

	data := make(map[string]interface{}, len(extra)+1)
	for key, value := range extra {
		data[key] = value
	}
	if err != nil {
		data["wrapped_error"] = err.Error()
	}

	updated, updateErr := envelope.WithContext(data)
	if updateErr != nil {
		return envelope
	}
	return updated
}

// ResponseDetails merges envelope details and context into an API-safe map.
func ResponseDetails(envelope *errors.ErrorEnvelope) map[string]interface{} {
	if envelope == nil {
		return nil
	}

	details := make(map[string]interface{})
	for key, value := range envelope.Details {
		details[key] = value
	}
	for key, value := range envelope.Context {
		if _, exists := details[key]; !exists {
			details[key] = value
		}
	}

	if len(details) == 0 {
		return nil
	}
	return details
}

// HTTPErrorDetail captures the error body returned to callers.
type HTTPErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// HTTPErrorResponse wraps HTTPErrorDetail in the standard envelope structure.
type HTTPErrorResponse struct {
	Error HTTPErrorDetail `json:"error"`
}

// RespondWithError normalizes the supplied error and writes a JSON response.
// Plain errors are classified with the request's correlation ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var envelope *errors.ErrorEnvelope
	if err != nil && r != nil && !stderrors.As(err, &envelope) {
		RespondWithEnvelope(w, r, FromProviderError(r.Context(), err))
		return
	}
	RespondWithEnvelope(w, r, EnsureEnvelope(err))
}

// RespondWithEnvelope finalizes the provided envelope, logging and emitting metrics.
func RespondWithEnvelope(w http.ResponseWriter, r *http.Request, envelope *errors.ErrorEnvelope) {
	if w == nil {
		return
	}

	if r != nil {
		envelope = EnsureCorrelationID(envelope, r.Context())
	} else {
		envelope = EnsureCorrelationID(envelope, nil)
	}

	statusCode := HTTPStatusFromCode(envelope.Code)
	response := HTTPErrorResponse{
		Error: HTTPErrorDetail{
			Code:      envelope.Code,
			Message:   envelope.Message,
			Details:   ResponseDetails(envelope),
			RequestID: envelope.CorrelationID,
		},
	}

	logHTTPError(envelope, statusCode)
	metrics.RecordError(envelope.Code, statusCode)
	if r != nil {
		metrics.RecordErrorByEndpoint(r.URL.Path, envelope.Code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func logHTTPError(envelope *errors.ErrorEnvelope, statusCode int) {
	if observability.ServerLogger == nil || envelope == nil {
		return
	}

	fields := []zap.Field{
		zap.String("error_code", envelope.Code),
		zap.Int("http_status", statusCode),
	}
	if envelope.Severity != "" {
		fields = append(fields, zap.String("severity", string(envelope.Severity)))
	}
	for key, value := range envelope.Context {
		fields = append(fields, zap.Any(key, value))
	}
	if envelope.CorrelationID != "" {
		fields = append(fields, zap.String("request_id", envelope.CorrelationID))
	}

	switch envelope.Severity {
	case errors.SeverityCritical, errors.SeverityHigh:
		observability.ServerLogger.Error(envelope.Message, fields...)
	case errors.SeverityMedium:
		observability.ServerLogger.Warn(envelope.Message, fields...)
	default:
		observability.ServerLogger.Info(envelope.Message, fields...)
	}
}
