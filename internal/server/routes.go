package server

import (
	"os"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/config"
	"github.com/matchlens/matchlens/internal/observability"
	"github.com/matchlens/matchlens/internal/server/handlers"
)

// AdminTokenEnv enables POST /admin/signal when set.
const AdminTokenEnv = config.EnvPrefix + "ADMIN_TOKEN"

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.health.HealthHandler)
	s.router.Get("/health/live", s.health.LivenessHandler)
	s.router.Get("/health/ready", s.health.ReadinessHandler)
	s.router.Get("/health/startup", s.health.StartupHandler)

	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", MetricsHandler)

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/leagues", s.data.Leagues)
		r.Get("/standings", s.data.Standings)
		r.Get("/fixtures", s.data.Fixtures)
		r.Get("/h2h", s.data.HeadToHead)
		r.Get("/teams/statistics", s.data.TeamStatistics)
		r.Get("/seasons", s.data.Seasons)
		r.Get("/players", s.data.PlayerStats)
	})

	s.registerAdminEndpoint()
}

func (s *Server) registerAdminEndpoint() {
	adminToken := os.Getenv(AdminTokenEnv)
	logger := observability.ServerLogger

	if adminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled (no " + AdminTokenEnv + " set)")
		}
		return
	}

	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: adminToken,
		RateLimit: 10,
		RateBurst: 5,
		Manager:   nil,
	})
	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("rate_limit", "10/min, burst 5"))
		logger.Warn("Admin endpoint enabled - ensure this server is not exposed to public internet")
	}
}
