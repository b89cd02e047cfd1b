package football

import "context"

// Draw is the winner value for fixtures where neither side is flagged as winner.
const Draw = "Draw"

// HeadToHeadColumns lists the flat fields produced by HeadToHead.
var HeadToHeadColumns = append(columnNames(fixtureColumns), "winner")

// HeadToHead fetches Team1's fixtures and keeps those Team2 also played in.
// The provider has no native endpoint for this, so filtering happens locally.
func (s *Service) HeadToHead(ctx context.Context, params HeadToHeadParams) (*Table, error) {
	payload, err := s.fetch(ctx, endpointFixtures, params.Query())
	if err != nil {
		return nil, err
	}
	return filterHeadToHead(flattenFixtures(payload), params.Team2), nil
}

func filterHeadToHead(fixtures *Table, opponent int) *Table {
	table := &Table{Columns: HeadToHeadColumns, Rows: []Record{}}
	for _, row := range fixtures.Rows {
		if !involves(row, opponent) {
			continue
		}
		row["winner"] = winner(row)
		table.Rows = append(table.Rows, row)
	}
	return table
}

func involves(row Record, team int) bool {
	for _, key := range []string{"home_team_id", "away_team_id"} {
		if id, ok := asInt(row[key]); ok && id == team {
			return true
		}
	}
	return false
}

func winner(row Record) any {
	if flag, _ := row["home_winner"].(bool); flag {
		return row["home_team_name"]
	}
	if flag, _ := row["away_winner"].(bool); flag {
		return row["away_team_name"]
	}
	return Draw
}
