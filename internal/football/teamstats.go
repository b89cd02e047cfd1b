package football

import "context"

// cardBuckets are the 15-minute match-time windows the provider reports cards in.
var cardBuckets = []string{"0-15", "16-30", "31-45", "46-60", "61-75", "76-90", "91-105", "106-120"}

var splits = []string{"home", "away", "total"}

var teamStatisticsColumns = append([]column{
	col("league_id", "league", "id"),
	col("league_name", "league", "name"),
	col("league_country", "league", "country"),
	col("season", "league", "season"),
	col("team_id", "team", "id"),
	col("team_name", "team", "name"),
	col("team_logo", "team", "logo"),
	col("form", "form"),
	col("biggest_streak_wins", "biggest", "streak", "wins"),
	col("biggest_streak_draws", "biggest", "streak", "draws"),
	col("biggest_streak_loses", "biggest", "streak", "loses"),
	col("biggest_wins_home", "biggest", "wins", "home"),
	col("biggest_wins_away", "biggest", "wins", "away"),
	col("biggest_loses_home", "biggest", "loses", "home"),
	col("biggest_loses_away", "biggest", "loses", "away"),
	col("biggest_goals_for_home", "biggest", "goals", "for", "home"),
	col("biggest_goals_for_away", "biggest", "goals", "for", "away"),
	col("biggest_goals_against_home", "biggest", "goals", "against", "home"),
	col("biggest_goals_against_away", "biggest", "goals", "against", "away"),
	col("penalty_scored_total", "penalty", "scored", "total"),
	col("penalty_scored_percentage", "penalty", "scored", "percentage"),
	col("penalty_missed_total", "penalty", "missed", "total"),
	col("penalty_missed_percentage", "penalty", "missed", "percentage"),
	col("penalty_total", "penalty", "total"),
}, splitColumns()...)

// TeamStatisticsColumns lists the flat fields produced by TeamStatistics.
var TeamStatisticsColumns = append(columnNames(teamStatisticsColumns),
	"yellow_cards_total", "red_cards_total", "most_used_formation", "formation_played")

func splitColumns() []column {
	var columns []column
	for _, outcome := range []string{"played", "wins", "draws", "loses"} {
		for _, split := range splits {
			columns = append(columns,
				col("fixtures_"+outcome+"_"+split, "fixtures", outcome, split))
		}
	}
	for _, side := range []string{"for", "against"} {
		for _, split := range splits {
			columns = append(columns,
				col("goals_"+side+"_"+split, "goals", side, "total", split),
				col("goals_"+side+"_avg_"+split, "goals", side, "average", split))
		}
	}
	for _, split := range splits {
		columns = append(columns,
			col("clean_sheet_"+split, "clean_sheet", split),
			col("failed_to_score_"+split, "failed_to_score", split))
	}
	return columns
}

// TeamStatistics returns a single record for one team, league and season.
func (s *Service) TeamStatistics(ctx context.Context, params TeamStatisticsParams) (Record, error) {
	payload, err := s.fetch(ctx, endpointTeamStatistics, params.Query())
	if err != nil {
		return nil, err
	}
	return flattenTeamStatistics(payload), nil
}

func flattenTeamStatistics(payload map[string]any) Record {
	stats := object(payload["response"])
	if len(stats) == 0 {
		return Record{}
	}

	record := extract(stats, teamStatisticsColumns)
	record["yellow_cards_total"] = sumCards(stats, "yellow")
	record["red_cards_total"] = sumCards(stats, "red")

	record["most_used_formation"] = nil
	record["formation_played"] = nil
	if lineups := list(stats["lineups"]); len(lineups) > 0 {
		first := object(lineups[0])
		record["most_used_formation"] = dig(first, "formation")
		record["formation_played"] = dig(first, "played")
	}
	return record
}

// sumCards adds the bucket totals for one card color; null buckets count as zero.
func sumCards(stats map[string]any, color string) int {
	total := 0
	for _, bucket := range cardBuckets {
		if n, ok := asInt(dig(stats, "cards", color, bucket, "total")); ok {
			total += n
		}
	}
	return total
}
