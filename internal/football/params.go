package football

import (
	"net/url"
	"strconv"
)

// Int returns a pointer to v for optional integer filters.
func Int(v int) *int { return &v }

// String returns a pointer to v for optional string filters.
func String(v string) *string { return &v }

// Bool returns a pointer to v for optional boolean filters.
func Bool(v bool) *bool { return &v }

// setInt and friends skip nil filters; any set value, including zero and the
// empty string, is sent.
func setInt(q url.Values, key string, v *int) {
	if v != nil {
		q.Set(key, strconv.Itoa(*v))
	}
}

func setString(q url.Values, key string, v *string) {
	if v != nil {
		q.Set(key, *v)
	}
}

func setBool(q url.Values, key string, v *bool) {
	if v != nil {
		q.Set(key, strconv.FormatBool(*v))
	}
}

// PlayerStatsParams filters the players endpoint.
type PlayerStatsParams struct {
	ID     int
	Season int
	Team   *int
	League *int
	Page   *int
}

// Query builds the request parameters.
func (p PlayerStatsParams) Query() url.Values {
	q := url.Values{}
	q.Set("id", strconv.Itoa(p.ID))
	q.Set("season", strconv.Itoa(p.Season))
	setInt(q, "team", p.Team)
	setInt(q, "league", p.League)
	setInt(q, "page", p.Page)
	return q
}

// LeagueParams filters the leagues endpoint.
type LeagueParams struct {
	ID      *int
	Name    *string
	Country *string
	Code    *string
	Season  *int
	Team    *int
	Type    *string
	Current *bool
	Search  *string
	Last    *int
}

// Query builds the request parameters.
func (p LeagueParams) Query() url.Values {
	q := url.Values{}
	setInt(q, "id", p.ID)
	setString(q, "name", p.Name)
	setString(q, "country", p.Country)
	setString(q, "code", p.Code)
	setInt(q, "season", p.Season)
	setInt(q, "team", p.Team)
	setString(q, "type", p.Type)
	setBool(q, "current", p.Current)
	setString(q, "search", p.Search)
	setInt(q, "last", p.Last)
	return q
}

// StandingsParams filters the standings endpoint.
type StandingsParams struct {
	League *int
	Season *int
	Team   *int
}

// Query builds the request parameters.
func (p StandingsParams) Query() url.Values {
	q := url.Values{}
	setInt(q, "league", p.League)
	setInt(q, "season", p.Season)
	setInt(q, "team", p.Team)
	return q
}

// FixtureParams filters the fixtures endpoint.
type FixtureParams struct {
	ID       *int
	Date     *string
	League   *int
	Season   *int
	Team     *int
	Last     *int
	Next     *int
	From     *string
	To       *string
	Round    *string
	Status   *string
	Venue    *int
	Timezone *string
	Live     *string
}

// Query builds the request parameters.
func (p FixtureParams) Query() url.Values {
	q := url.Values{}
	setInt(q, "id", p.ID)
	setString(q, "date", p.Date)
	setInt(q, "league", p.League)
	setInt(q, "season", p.Season)
	setInt(q, "team", p.Team)
	setInt(q, "last", p.Last)
	setInt(q, "next", p.Next)
	setString(q, "from", p.From)
	setString(q, "to", p.To)
	setString(q, "round", p.Round)
	setString(q, "status", p.Status)
	setInt(q, "venue", p.Venue)
	setString(q, "timezone", p.Timezone)
	setString(q, "live", p.Live)
	return q
}

// TeamStatisticsParams selects one team, league and season.
type TeamStatisticsParams struct {
	League int
	Season int
	Team   int
	Date   *string
}

// Query builds the request parameters.
func (p TeamStatisticsParams) Query() url.Values {
	q := url.Values{}
	q.Set("league", strconv.Itoa(p.League))
	q.Set("season", strconv.Itoa(p.Season))
	q.Set("team", strconv.Itoa(p.Team))
	setString(q, "date", p.Date)
	return q
}

// HeadToHeadParams selects two teams and optional fixture filters.
type HeadToHeadParams struct {
	Team1  int
	Team2  int
	League *int
	Season *int
	Last   *int
	Status *string
}

// Query builds the fixtures request for Team1; Team2 is applied locally.
func (p HeadToHeadParams) Query() url.Values {
	q := url.Values{}
	q.Set("team", strconv.Itoa(p.Team1))
	setInt(q, "league", p.League)
	setInt(q, "season", p.Season)
	setInt(q, "last", p.Last)
	setString(q, "status", p.Status)
	return q
}
