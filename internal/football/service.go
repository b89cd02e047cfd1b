// Package football adapts API-Football endpoints into flat tables. Each adapter
// builds query parameters, makes one executor call and flattens the response.
package football

import (
	"context"
	"net/url"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/matchlens/matchlens/internal/apisports"
)

const (
	endpointPlayers        = "players"
	endpointSeasons        = "seasons"
	endpointLeagues        = "leagues"
	endpointStandings      = "standings"
	endpointFixtures       = "fixtures"
	endpointTeamStatistics = "teams/statistics"
)

// Executor performs one provider request. *apisports.Client implements it.
type Executor interface {
	Execute(ctx context.Context, endpoint string, query url.Values) (*apisports.Result, error)
}

// Service exposes the endpoint adapters.
type Service struct {
	Executor Executor
	Logger   *logging.Logger
}

// NewService returns a Service backed by exec.
func NewService(exec Executor, logger *logging.Logger) *Service {
	return &Service{Executor: exec, Logger: logger}
}

// fetch runs the request and returns its payload. Executor errors pass
// through untouched; an empty result yields an empty payload.
func (s *Service) fetch(ctx context.Context, endpoint string, query url.Values) (map[string]any, error) {
	if s.Logger != nil {
		s.Logger.Debug("Fetching", zap.String("endpoint", endpoint), zap.String("query", query.Encode()))
	}

	result, err := s.Executor.Execute(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	if result.Empty() {
		if s.Logger != nil {
			s.Logger.Info("No data returned",
				zap.String("endpoint", endpoint),
				zap.String("outcome", result.Outcome.String()))
		}
		return map[string]any{}, nil
	}
	return result.Payload, nil
}
