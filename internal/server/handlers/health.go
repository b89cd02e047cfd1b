package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/fulmenhq/gofulmen/errors"
)

// Check results
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
	statusTimeout   = "timeout"
)

// HealthResponse represents the aggregate health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProbeResponse represents individual probe response
type ProbeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthChecker is implemented by components with a health signal, such as
// the response cache.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// HealthManager runs registered checks for the health endpoints.
type HealthManager struct {
	checkers map[string]HealthChecker
	version  string
}

// NewHealthManager creates a new health manager
func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		checkers: make(map[string]HealthChecker),
		version:  version,
	}
}

// RegisterChecker registers a health checker
func (hm *HealthManager) RegisterChecker(name string, checker HealthChecker) {
	hm.checkers[name] = checker
}

func (hm *HealthManager) runHealthChecks(ctx context.Context) map[string]string {
	checks := make(map[string]string, len(hm.checkers))
	for name, checker := range hm.checkers {
		if ctx.Err() != nil {
			checks[name] = statusTimeout
			continue
		}
		if err := checker.CheckHealth(ctx); err != nil {
			checks[name] = statusUnhealthy
		} else {
			checks[name] = statusHealthy
		}
	}
	return checks
}

func (hm *HealthManager) determineOverallStatus(checks map[string]string) string {
	degraded := false
	for _, status := range checks {
		switch status {
		case statusUnhealthy:
			return statusUnhealthy
		case statusDegraded, statusTimeout:
			degraded = true
		}
	}
	if degraded {
		return statusDegraded
	}
	return statusHealthy
}

// evaluate runs all checks under timeout. It writes the error response and
// returns false when the aggregate is unhealthy.
func (hm *HealthManager) evaluate(w http.ResponseWriter, r *http.Request, probe string, timeout time.Duration) (string, map[string]string, bool) {
	checkCtx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	checks := hm.runHealthChecks(checkCtx)
	status := hm.determineOverallStatus(checks)
	if status == statusUnhealthy {
		message := "aggregate health check failed"
		if probe != "" {
			message = probe + " probe failed"
		}
		envelope := errors.NewErrorEnvelope("SERVICE_UNAVAILABLE", message)
		respondWithError(w, r, enrichHealthEnvelope(envelope, probe, status, checks))
		return status, checks, false
	}
	return status, checks, true
}

func (hm *HealthManager) probe(w http.ResponseWriter, r *http.Request, probe string, timeout time.Duration) {
	status, _, ok := hm.evaluate(w, r, probe, timeout)
	if !ok {
		return
	}
	writeJSON(w, ProbeResponse{Status: status, Timestamp: time.Now().UTC()})
}

// HealthHandler serves GET /health.
func (hm *HealthManager) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status, checks, ok := hm.evaluate(w, r, "", 5*time.Second)
	if !ok {
		return
	}
	writeJSON(w, HealthResponse{
		Status:    status,
		Version:   hm.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// LivenessHandler serves GET /health/live.
func (hm *HealthManager) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	hm.probe(w, r, "live", 2*time.Second)
}

// ReadinessHandler serves GET /health/ready.
func (hm *HealthManager) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	hm.probe(w, r, "ready", 5*time.Second)
}

// StartupHandler serves GET /health/startup.
func (hm *HealthManager) StartupHandler(w http.ResponseWriter, r *http.Request) {
	hm.probe(w, r, "startup", 3*time.Second)
}

func enrichHealthEnvelope(envelope *errors.ErrorEnvelope, probe, status string, checks map[string]string) *errors.ErrorEnvelope {
	details := map[string]interface{}{"status": status}
	contextData := map[string]interface{}{"status": status}
	if len(checks) > 0 {
		details["checks"] = checks
	}
	if probe != "" {
		details["probe"] = probe
		contextData["probe"] = probe
	}

	var unhealthy []string
	for name, result := range checks {
		if result != statusHealthy {
			unhealthy = append(unhealthy, name)
		}
	}
	if len(unhealthy) > 0 {
		sort.Strings(unhealthy)
		contextData["unhealthy_checks"] = unhealthy
	}

	envelope = envelope.WithDetails(details)
	if updated, err := envelope.WithContext(contextData); err == nil {
		envelope = updated
	}
	return envelope
}
