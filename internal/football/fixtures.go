package football

import "context"

var fixtureColumns = []column{
	col("fixture_id", "fixture", "id"),
	col("referee", "fixture", "referee"),
	col("timezone", "fixture", "timezone"),
	col("date", "fixture", "date"),
	col("timestamp", "fixture", "timestamp"),
	col("venue_id", "fixture", "venue", "id"),
	col("venue_name", "fixture", "venue", "name"),
	col("venue_city", "fixture", "venue", "city"),
	col("status_long", "fixture", "status", "long"),
	col("status_short", "fixture", "status", "short"),
	col("elapsed", "fixture", "status", "elapsed"),
	col("league_id", "league", "id"),
	col("league_name", "league", "name"),
	col("league_country", "league", "country"),
	col("season", "league", "season"),
	col("round", "league", "round"),
	col("home_team_id", "teams", "home", "id"),
	col("home_team_name", "teams", "home", "name"),
	col("home_team_logo", "teams", "home", "logo"),
	col("home_winner", "teams", "home", "winner"),
	col("away_team_id", "teams", "away", "id"),
	col("away_team_name", "teams", "away", "name"),
	col("away_team_logo", "teams", "away", "logo"),
	col("away_winner", "teams", "away", "winner"),
	col("home_goals", "goals", "home"),
	col("away_goals", "goals", "away"),
	col("halftime_home", "score", "halftime", "home"),
	col("halftime_away", "score", "halftime", "away"),
	col("fulltime_home", "score", "fulltime", "home"),
	col("fulltime_away", "score", "fulltime", "away"),
	col("extratime_home", "score", "extratime", "home"),
	col("extratime_away", "score", "extratime", "away"),
	col("penalty_home", "score", "penalty", "home"),
	col("penalty_away", "score", "penalty", "away"),
}

// FixtureColumns lists the flat fields produced by Fixtures.
var FixtureColumns = columnNames(fixtureColumns)

// Fixtures returns one record per fixture.
func (s *Service) Fixtures(ctx context.Context, params FixtureParams) (*Table, error) {
	payload, err := s.fetch(ctx, endpointFixtures, params.Query())
	if err != nil {
		return nil, err
	}
	return flattenFixtures(payload), nil
}

func flattenFixtures(payload map[string]any) *Table {
	table := &Table{Columns: FixtureColumns, Rows: []Record{}}
	for _, item := range responseItems(payload) {
		table.Rows = append(table.Rows, extract(item, fixtureColumns))
	}
	return table
}
