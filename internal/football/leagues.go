package football

import "context"

// LeagueColumns lists the flat fields produced by Leagues.
var LeagueColumns = []string{
	"league_id",
	"league_name",
	"league_type",
	"league_logo",
	"country_name",
	"country_code",
	"country_flag",
	"season",
	"season_start",
	"season_end",
}

// Leagues returns one record per league.
func (s *Service) Leagues(ctx context.Context, params LeagueParams) (*Table, error) {
	payload, err := s.fetch(ctx, endpointLeagues, params.Query())
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: LeagueColumns, Rows: []Record{}}
	for _, item := range responseItems(payload) {
		table.Rows = append(table.Rows, flattenLeague(item))
	}
	return table, nil
}

func flattenLeague(item map[string]any) Record {
	// Some payload shapes nest the league under "leagues".
	league := object(item["league"])
	if len(league) == 0 {
		league = object(item["leagues"])
	}

	country := object(item["country"])
	countryName := dig(country, "name")
	if countryName == nil {
		countryName = dig(league, "country")
	}

	season := currentSeason(list(item["seasons"]))
	year := dig(season, "year")
	if year == nil {
		year = dig(league, "season")
	}

	return Record{
		"league_id":    dig(league, "id"),
		"league_name":  dig(league, "name"),
		"league_type":  dig(league, "type"),
		"league_logo":  dig(league, "logo"),
		"country_name": countryName,
		"country_code": dig(country, "code"),
		"country_flag": firstNonNil(dig(country, "flag"), dig(league, "flag")),
		"season":       year,
		"season_start": dig(season, "start"),
		"season_end":   dig(season, "end"),
	}
}

// currentSeason picks the season flagged current, else the last one listed.
func currentSeason(seasons []any) map[string]any {
	var last map[string]any
	for _, entry := range seasons {
		season := object(entry)
		if current, ok := season["current"].(bool); ok && current {
			return season
		}
		last = season
	}
	return object(last)
}

func firstNonNil(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
