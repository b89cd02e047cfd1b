package football

import "context"

var standingColumns = []column{
	col("rank", "rank"),
	col("group", "group"),
	col("team_id", "team", "id"),
	col("team_name", "team", "name"),
	col("team_logo", "team", "logo"),
	col("points", "points"),
	col("goals_diff", "goalsDiff"),
	col("form", "form"),
	col("status", "status"),
	col("description", "description"),
	col("played", "all", "played"),
	col("win", "all", "win"),
	col("draw", "all", "draw"),
	col("lose", "all", "lose"),
	col("goals_for", "all", "goals", "for"),
	col("goals_against", "all", "goals", "against"),
	col("home_played", "home", "played"),
	col("home_win", "home", "win"),
	col("home_draw", "home", "draw"),
	col("home_lose", "home", "lose"),
	col("home_goals_for", "home", "goals", "for"),
	col("home_goals_against", "home", "goals", "against"),
	col("away_played", "away", "played"),
	col("away_win", "away", "win"),
	col("away_draw", "away", "draw"),
	col("away_lose", "away", "lose"),
	col("away_goals_for", "away", "goals", "for"),
	col("away_goals_against", "away", "goals", "against"),
	col("update", "update"),
}

var standingLeagueColumns = []column{
	col("league_id", "id"),
	col("league_name", "name"),
	col("country", "country"),
	col("season", "season"),
}

// StandingColumns lists the flat fields produced by Standings.
var StandingColumns = append(columnNames(standingLeagueColumns), columnNames(standingColumns)...)

// Standings returns one record per team per standings group.
func (s *Service) Standings(ctx context.Context, params StandingsParams) (*Table, error) {
	payload, err := s.fetch(ctx, endpointStandings, params.Query())
	if err != nil {
		return nil, err
	}
	return flattenStandings(payload), nil
}

func flattenStandings(payload map[string]any) *Table {
	table := &Table{Columns: StandingColumns, Rows: []Record{}}

	for _, item := range responseItems(payload) {
		league := object(item["league"])
		leagueFields := extract(league, standingLeagueColumns)

		for _, group := range list(league["standings"]) {
			for _, entry := range list(group) {
				record := extract(object(entry), standingColumns)
				for key, value := range leagueFields {
					record[key] = value
				}
				table.Rows = append(table.Rows, record)
			}
		}
	}
	return table
}
