package football

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchlens/matchlens/internal/apisports"
)

type stubExecutor struct {
	body     string
	err      error
	outcome  apisports.Outcome
	endpoint string
	query    url.Values
	calls    int
}

func (s *stubExecutor) Execute(ctx context.Context, endpoint string, query url.Values) (*apisports.Result, error) {
	s.calls++
	s.endpoint = endpoint
	s.query = query

	result := &apisports.Result{Endpoint: endpoint, Outcome: s.outcome}
	if s.err != nil {
		return result, s.err
	}
	if s.body != "" {
		payload := map[string]any{}
		if err := json.Unmarshal([]byte(s.body), &payload); err != nil {
			return nil, err
		}
		result.Payload = payload
	}
	return result, nil
}

func standingsEntry(group string, rank, teamID int) string {
	return fmt.Sprintf(`{
		"rank": %d, "group": %q,
		"team": {"id": %d, "name": "Team %d", "logo": "logo-%d"},
		"points": %d, "goalsDiff": 3, "form": "WWDLW", "status": "same", "description": null,
		"all": {"played": 5, "win": 3, "draw": 1, "lose": 1, "goals": {"for": 9, "against": 6}},
		"home": {"played": 3, "win": 2, "draw": 1, "lose": 0, "goals": {"for": 6, "against": 2}},
		"away": {"played": 2, "win": 1, "draw": 0, "lose": 1, "goals": {"for": 3, "against": 4}},
		"update": "2024-05-01T00:00:00+00:00"
	}`, rank, group, teamID, teamID, teamID, 20-rank)
}

func fixtureJSON(id, homeID int, homeName string, awayID int, awayName string, homeWin, awayWin string) string {
	return fmt.Sprintf(`{
		"fixture": {"id": %d, "referee": "Ref", "timezone": "UTC", "date": "2024-01-01T15:00:00+00:00", "timestamp": 1704121200,
			"venue": {"id": 555, "name": "Ground", "city": "City"},
			"status": {"long": "Match Finished", "short": "FT", "elapsed": 90}},
		"league": {"id": 39, "name": "Premier League", "country": "England", "season": 2024, "round": "Regular Season - 1"},
		"teams": {"home": {"id": %d, "name": %q, "logo": "h.png", "winner": %s},
			"away": {"id": %d, "name": %q, "logo": "a.png", "winner": %s}},
		"goals": {"home": 2, "away": 1},
		"score": {"halftime": {"home": 1, "away": 0}, "fulltime": {"home": 2, "away": 1},
			"extratime": {"home": null, "away": null}, "penalty": {"home": null, "away": null}}
	}`, id, homeID, homeName, homeWin, awayID, awayName, awayWin)
}

func TestQueryOmitsUnsetFilters(t *testing.T) {
	t.Run("Fixtures", func(t *testing.T) {
		q := FixtureParams{League: Int(39), Season: Int(2024)}.Query()
		assert.Equal(t, url.Values{"league": {"39"}, "season": {"2024"}}, q)
	})

	t.Run("ZeroValuesAreSent", func(t *testing.T) {
		q := FixtureParams{Last: Int(0), Round: String("")}.Query()
		assert.Equal(t, url.Values{"last": {"0"}, "round": {""}}, q)
	})

	t.Run("LeaguesEmpty", func(t *testing.T) {
		assert.Empty(t, LeagueParams{}.Query())
	})

	t.Run("LeaguesBool", func(t *testing.T) {
		q := LeagueParams{Country: String("England"), Current: Bool(false)}.Query()
		assert.Equal(t, url.Values{"country": {"England"}, "current": {"false"}}, q)
	})

	t.Run("Standings", func(t *testing.T) {
		q := StandingsParams{League: Int(39)}.Query()
		assert.Equal(t, url.Values{"league": {"39"}}, q)
	})

	t.Run("PlayerStatsRequired", func(t *testing.T) {
		q := PlayerStatsParams{ID: 1100, Season: 2023}.Query()
		assert.Equal(t, url.Values{"id": {"1100"}, "season": {"2023"}}, q)
	})

	t.Run("TeamStatistics", func(t *testing.T) {
		q := TeamStatisticsParams{League: 39, Season: 2024, Team: 33}.Query()
		assert.Equal(t, url.Values{"league": {"39"}, "season": {"2024"}, "team": {"33"}}, q)
	})

	t.Run("HeadToHeadDropsSecondTeam", func(t *testing.T) {
		q := HeadToHeadParams{Team1: 40, Team2: 42, Season: Int(2024)}.Query()
		assert.Equal(t, url.Values{"team": {"40"}, "season": {"2024"}}, q)
	})
}

func TestDigIsNilSafe(t *testing.T) {
	item := map[string]any{
		"fixture": map[string]any{"id": 1.0, "venue": "not-a-map"},
		"teams":   nil,
	}

	assert.Equal(t, 1.0, dig(item, "fixture", "id"))
	assert.Nil(t, dig(item, "fixture", "venue", "name"))
	assert.Nil(t, dig(item, "teams", "home", "id"))
	assert.Nil(t, dig(item, "missing", "deeply", "nested"))
	assert.Nil(t, dig(nil, "anything"))
	assert.Nil(t, dig(item))
	// Nested values never leak into flat records.
	assert.Nil(t, dig(map[string]any{"a": map[string]any{}}, "a"))
}

func TestFixturesMissingFieldsYieldNil(t *testing.T) {
	exec := &stubExecutor{body: `{"response":[{"fixture":{"id":7}}]}`}
	svc := NewService(exec, nil)

	table, err := svc.Fixtures(context.Background(), FixtureParams{Date: String("2024-01-01")})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "fixtures", exec.endpoint)
	assert.Equal(t, "2024-01-01", exec.query.Get("date"))

	row := table.Rows[0]
	assert.Equal(t, 7.0, row["fixture_id"])
	for _, name := range FixtureColumns {
		assert.Contains(t, row, name)
	}
	assert.Nil(t, row["home_team_name"])
	assert.Nil(t, row["penalty_away"])
}

func TestFixturesFlatten(t *testing.T) {
	body := `{"response":[` + fixtureJSON(1, 40, "Liverpool", 42, "Arsenal", "true", "false") + `]}`
	svc := NewService(&stubExecutor{body: body}, nil)

	table, err := svc.Fixtures(context.Background(), FixtureParams{})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	row := table.Rows[0]
	assert.Equal(t, "Ground", row["venue_name"])
	assert.Equal(t, "FT", row["status_short"])
	assert.Equal(t, "Premier League", row["league_name"])
	assert.Equal(t, "Liverpool", row["home_team_name"])
	assert.Equal(t, true, row["home_winner"])
	assert.Equal(t, false, row["away_winner"])
	assert.Equal(t, 2.0, row["home_goals"])
	assert.Equal(t, 1.0, row["halftime_home"])
	assert.Nil(t, row["extratime_home"])
}

func TestStandingsTwoGroups(t *testing.T) {
	body := `{"response":[{"league":{"id":2,"name":"Champions League","country":"World","season":2024,"standings":[
		[` + standingsEntry("Group A", 1, 10) + `,` + standingsEntry("Group A", 2, 11) + `,` + standingsEntry("Group A", 3, 12) + `],
		[` + standingsEntry("Group B", 1, 20) + `,` + standingsEntry("Group B", 2, 21) + `,` + standingsEntry("Group B", 3, 22) + `]
	]}}]}`
	svc := NewService(&stubExecutor{body: body}, nil)

	table, err := svc.Standings(context.Background(), StandingsParams{League: Int(2), Season: Int(2024)})
	require.NoError(t, err)
	require.Equal(t, 6, table.Len())

	wantGroups := []string{"Group A", "Group A", "Group A", "Group B", "Group B", "Group B"}
	wantRanks := []float64{1, 2, 3, 1, 2, 3}
	for i, row := range table.Rows {
		assert.Equal(t, wantGroups[i], row["group"])
		assert.Equal(t, wantRanks[i], row["rank"])
		assert.Equal(t, "Champions League", row["league_name"])
		assert.Equal(t, 2024.0, row["season"])
	}

	first := table.Rows[0]
	assert.Equal(t, "Team 10", first["team_name"])
	assert.Equal(t, "WWDLW", first["form"])
	assert.Equal(t, 9.0, first["goals_for"])
	assert.Equal(t, 2.0, first["home_win"])
	assert.Equal(t, 4.0, first["away_goals_against"])
	assert.Nil(t, first["description"])
}

func TestHeadToHead(t *testing.T) {
	body := `{"response":[` +
		fixtureJSON(1, 40, "Liverpool", 42, "Arsenal", "true", "false") + `,` +
		fixtureJSON(2, 40, "Liverpool", 50, "Chelsea", "false", "true") + `,` +
		fixtureJSON(3, 42, "Arsenal", 40, "Liverpool", "null", "null") + `,` +
		fixtureJSON(4, 60, "Everton", 40, "Liverpool", "true", "false") +
		`]}`
	exec := &stubExecutor{body: body}
	svc := NewService(exec, nil)

	table, err := svc.HeadToHead(context.Background(), HeadToHeadParams{Team1: 40, Team2: 42, Season: Int(2024)})
	require.NoError(t, err)
	assert.Equal(t, "40", exec.query.Get("team"))
	assert.Equal(t, HeadToHeadColumns, table.Columns)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, 1.0, table.Rows[0]["fixture_id"])
	assert.Equal(t, "Liverpool", table.Rows[0]["winner"])
	assert.Equal(t, 3.0, table.Rows[1]["fixture_id"])
	assert.Equal(t, Draw, table.Rows[1]["winner"])
}

func TestHeadToHeadAwayWinner(t *testing.T) {
	body := `{"response":[` + fixtureJSON(9, 42, "Arsenal", 40, "Liverpool", "false", "true") + `]}`
	svc := NewService(&stubExecutor{body: body}, nil)

	table, err := svc.HeadToHead(context.Background(), HeadToHeadParams{Team1: 40, Team2: 42})
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "Liverpool", table.Rows[0]["winner"])
}

func TestLeagues(t *testing.T) {
	body := `{"response":[
		{"league":{"id":39,"name":"Premier League","type":"League","logo":"pl.png"},
		 "country":{"name":"England","code":"GB","flag":"gb.svg"},
		 "seasons":[{"year":2023,"start":"2023-08-11","end":"2024-05-19","current":false},
		            {"year":2024,"start":"2024-08-16","end":"2025-05-25","current":true},
		            {"year":2025,"start":"2025-08-15","end":"2026-05-24","current":false}]},
		{"leagues":{"id":40,"name":"Championship","type":"League","country":"England","season":2022}}
	]}`
	exec := &stubExecutor{body: body}
	svc := NewService(exec, nil)

	table, err := svc.Leagues(context.Background(), LeagueParams{Country: String("England")})
	require.NoError(t, err)
	assert.Equal(t, "leagues", exec.endpoint)
	require.Equal(t, 2, table.Len())

	first := table.Rows[0]
	assert.Equal(t, 39.0, first["league_id"])
	assert.Equal(t, "England", first["country_name"])
	assert.Equal(t, 2024.0, first["season"])
	assert.Equal(t, "2024-08-16", first["season_start"])

	second := table.Rows[1]
	assert.Equal(t, 40.0, second["league_id"])
	assert.Equal(t, "Championship", second["league_name"])
	assert.Equal(t, "England", second["country_name"])
	assert.Equal(t, 2022.0, second["season"])
	assert.Nil(t, second["country_code"])
}

func TestTeamStatistics(t *testing.T) {
	body := `{"response":{
		"league":{"id":39,"name":"Premier League","country":"England","season":2024},
		"team":{"id":33,"name":"Manchester United","logo":"mu.png"},
		"form":"WDLWW",
		"fixtures":{"played":{"home":19,"away":19,"total":38},"wins":{"home":10,"away":8,"total":18},
			"draws":{"home":4,"away":5,"total":9},"loses":{"home":5,"away":6,"total":11}},
		"goals":{"for":{"total":{"home":30,"away":27,"total":57},"average":{"home":"1.6","away":"1.4","total":"1.5"}},
			"against":{"total":{"home":20,"away":38,"total":58},"average":{"home":"1.1","away":"2.0","total":"1.5"}}},
		"biggest":{"streak":{"wins":4,"draws":2,"loses":3},"wins":{"home":"4-0","away":"0-3"},"loses":{"home":"0-3","away":"4-0"},
			"goals":{"for":{"home":4,"away":3},"against":{"home":3,"away":4}}},
		"clean_sheet":{"home":6,"away":3,"total":9},
		"failed_to_score":{"home":3,"away":5,"total":8},
		"penalty":{"scored":{"total":5,"percentage":"83.33%"},"missed":{"total":1,"percentage":"16.67%"},"total":6},
		"lineups":[{"formation":"4-2-3-1","played":30},{"formation":"4-3-3","played":8}],
		"cards":{
			"yellow":{"0-15":{"total":2},"16-30":{"total":5},"31-45":{"total":null},"46-60":{"total":7},
				"61-75":{"total":10},"76-90":{"total":12},"91-105":{"total":3},"106-120":{"total":null}},
			"red":{"0-15":{"total":null},"46-60":{"total":1},"76-90":{"total":1}}}
	}}`
	exec := &stubExecutor{body: body}
	svc := NewService(exec, nil)

	record, err := svc.TeamStatistics(context.Background(), TeamStatisticsParams{League: 39, Season: 2024, Team: 33})
	require.NoError(t, err)
	assert.Equal(t, "teams/statistics", exec.endpoint)

	assert.Equal(t, "WDLWW", record["form"])
	assert.Equal(t, 38.0, record["fixtures_played_total"])
	assert.Equal(t, 10.0, record["fixtures_wins_home"])
	assert.Equal(t, 57.0, record["goals_for_total"])
	assert.Equal(t, "1.5", record["goals_against_avg_total"])
	assert.Equal(t, 4.0, record["biggest_streak_wins"])
	assert.Equal(t, "4-0", record["biggest_wins_home"])
	assert.Equal(t, 9.0, record["clean_sheet_total"])
	assert.Equal(t, 5.0, record["failed_to_score_away"])
	assert.Equal(t, "83.33%", record["penalty_scored_percentage"])
	assert.Equal(t, 6.0, record["penalty_total"])
	assert.Equal(t, 39, record["yellow_cards_total"])
	assert.Equal(t, 2, record["red_cards_total"])
	assert.Equal(t, "4-2-3-1", record["most_used_formation"])
	assert.Equal(t, 30.0, record["formation_played"])

	for _, name := range TeamStatisticsColumns {
		assert.Contains(t, record, name)
	}
}

func TestTeamStatisticsWithoutLineups(t *testing.T) {
	svc := NewService(&stubExecutor{body: `{"response":{"team":{"id":33}}}`}, nil)

	record, err := svc.TeamStatistics(context.Background(), TeamStatisticsParams{League: 39, Season: 2024, Team: 33})
	require.NoError(t, err)
	assert.Nil(t, record["most_used_formation"])
	assert.Nil(t, record["formation_played"])
	assert.Equal(t, 0, record["yellow_cards_total"])
	assert.Nil(t, record["goals_for_total"])
}

func TestEmptyResultsYieldEmptyOutput(t *testing.T) {
	exec := &stubExecutor{outcome: apisports.OutcomeRetriesExhausted}
	svc := NewService(exec, nil)
	ctx := context.Background()

	fixtures, err := svc.Fixtures(ctx, FixtureParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, fixtures.Len())
	assert.Equal(t, FixtureColumns, fixtures.Columns)

	standings, err := svc.Standings(ctx, StandingsParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, standings.Len())

	record, err := svc.TeamStatistics(ctx, TeamStatisticsParams{})
	require.NoError(t, err)
	assert.Empty(t, record)
	assert.NotNil(t, record)

	seasons, err := svc.Seasons(ctx)
	require.NoError(t, err)
	assert.Empty(t, seasons)

	raw, err := svc.PlayerStats(ctx, PlayerStatsParams{ID: 1, Season: 2024})
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestExecutorErrorsPropagate(t *testing.T) {
	exec := &stubExecutor{err: apisports.ErrQuotaExhausted}
	svc := NewService(exec, nil)

	_, err := svc.Fixtures(context.Background(), FixtureParams{})
	require.ErrorIs(t, err, apisports.ErrQuotaExhausted)

	httpErr := &apisports.HTTPError{Endpoint: "standings", StatusCode: 500}
	exec.err = httpErr
	_, err = svc.Standings(context.Background(), StandingsParams{})
	require.Same(t, httpErr, err)
}

func TestAdaptersAreIdempotent(t *testing.T) {
	body := `{"response":[` + fixtureJSON(1, 40, "Liverpool", 42, "Arsenal", "true", "false") + `]}`
	svc := NewService(&stubExecutor{body: body}, nil)
	params := HeadToHeadParams{Team1: 40, Team2: 42}

	first, err := svc.HeadToHead(context.Background(), params)
	require.NoError(t, err)
	second, err := svc.HeadToHead(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSeasonsAndPlayerStats(t *testing.T) {
	exec := &stubExecutor{body: `{"response":[2022,2023,2024]}`}
	svc := NewService(exec, nil)

	seasons, err := svc.Seasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []any{2022.0, 2023.0, 2024.0}, seasons)
	assert.Equal(t, "seasons", exec.endpoint)
	assert.Empty(t, exec.query)

	exec.body = `{"response":[{"player":{"id":1100},"statistics":[{"goals":{"total":27}}]}]}`
	raw, err := svc.PlayerStats(context.Background(), PlayerStatsParams{ID: 1100, Season: 2023})
	require.NoError(t, err)
	assert.Equal(t, "players", exec.endpoint)
	assert.Len(t, raw["response"], 1)
}
