package football

import "context"

// PlayerStats returns the raw players payload for one player and season.
// The nested statistics arrays are left for the caller to interpret.
func (s *Service) PlayerStats(ctx context.Context, params PlayerStatsParams) (map[string]any, error) {
	return s.fetch(ctx, endpointPlayers, params.Query())
}

// Seasons returns the list of season years under the response key.
func (s *Service) Seasons(ctx context.Context) ([]any, error) {
	payload, err := s.fetch(ctx, endpointSeasons, nil)
	if err != nil {
		return nil, err
	}
	seasons := list(payload["response"])
	if seasons == nil {
		return []any{}, nil
	}
	return seasons, nil
}
