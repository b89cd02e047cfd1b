package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/matchlens/matchlens/internal/football"
	"github.com/matchlens/matchlens/internal/output"

	apperrors "github.com/matchlens/matchlens/internal/errors"
)

// FootballService is the adapter surface the HTTP handlers call.
// *football.Service implements it.
type FootballService interface {
	PlayerStats(ctx context.Context, params football.PlayerStatsParams) (map[string]any, error)
	Seasons(ctx context.Context) ([]any, error)
	Leagues(ctx context.Context, params football.LeagueParams) (*football.Table, error)
	Standings(ctx context.Context, params football.StandingsParams) (*football.Table, error)
	Fixtures(ctx context.Context, params football.FixtureParams) (*football.Table, error)
	HeadToHead(ctx context.Context, params football.HeadToHeadParams) (*football.Table, error)
	TeamStatistics(ctx context.Context, params football.TeamStatisticsParams) (football.Record, error)
}

// Football serves the /v1 data endpoints.
type Football struct {
	service FootballService
}

// NewFootball returns handlers backed by service.
func NewFootball(service FootballService) *Football {
	return &Football{service: service}
}

var contentTypes = map[output.Format]string{
	output.FormatJSON:     "application/json",
	output.FormatYAML:     "application/yaml",
	output.FormatMarkdown: "text/markdown; charset=utf-8",
	output.FormatCSV:      "text/csv; charset=utf-8",
	output.FormatTable:    "text/plain; charset=utf-8",
}

// queryReader collects the first parse failure so handlers can check once.
type queryReader struct {
	r   *http.Request
	err error
}

func newQueryReader(r *http.Request) *queryReader {
	return &queryReader{r: r}
}

func (q *queryReader) raw(key string) (string, bool) {
	values := q.r.URL.Query()
	if !values.Has(key) {
		return "", false
	}
	return strings.TrimSpace(values.Get(key)), true
}

func (q *queryReader) optInt(key string) *int {
	value, ok := q.raw(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		if q.err == nil {
			q.err = fmt.Errorf("query parameter %q must be an integer, got %q", key, value)
		}
		return nil
	}
	return &n
}

func (q *queryReader) reqInt(key string) int {
	if _, ok := q.raw(key); !ok {
		if q.err == nil {
			q.err = fmt.Errorf("query parameter %q is required", key)
		}
		return 0
	}
	if n := q.optInt(key); n != nil {
		return *n
	}
	return 0
}

func (q *queryReader) optString(key string) *string {
	value, ok := q.raw(key)
	if !ok {
		return nil
	}
	return &value
}

func (q *queryReader) optBool(key string) *bool {
	value, ok := q.raw(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		if q.err == nil {
			q.err = fmt.Errorf("query parameter %q must be a boolean, got %q", key, value)
		}
		return nil
	}
	return &b
}

func (q *queryReader) format() output.Format {
	value, ok := q.raw("format")
	if !ok || value == "" {
		return output.FormatJSON
	}
	format, err := output.ParseFormat(value)
	if err != nil && q.err == nil {
		q.err = err
	}
	return format
}

func invalid(w http.ResponseWriter, r *http.Request, err error) {
	respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, err.Error()))
}

func writeRendered(w http.ResponseWriter, format output.Format, body string) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (h *Football) writeTable(w http.ResponseWriter, r *http.Request, format output.Format, t *football.Table) {
	body, err := output.NewFormatter(format).FormatTable(t)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeRendered(w, format, body)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

// Leagues handles GET /v1/leagues.
func (h *Football) Leagues(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := football.LeagueParams{
		ID:      q.optInt("id"),
		Name:    q.optString("name"),
		Country: q.optString("country"),
		Code:    q.optString("code"),
		Season:  q.optInt("season"),
		Team:    q.optInt("team"),
		Type:    q.optString("type"),
		Current: q.optBool("current"),
		Search:  q.optString("search"),
		Last:    q.optInt("last"),
	}
	format := q.format()
	if q.err != nil {
		invalid(w, r, q.err)
		return
	}

	t, err := h.service.Leagues(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	h.writeTable(w, r, format, t)
}

// Standings handles GET /v1/standings.
func (h *Football) Standings(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := football.StandingsParams{
		League: q.optInt("league"),
		Season: q.optInt("season"),
		Team:   q.optInt("team"),
	}
	format := q.format()
	if q.err != nil {
		invalid(w, r, q.err)
		return
	}

	t, err := h.service.Standings(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	h.writeTable(w, r, format, t)
}

// Fixtures handles GET /v1/fixtures.
func (h *Football) Fixtures(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := football.FixtureParams{
		ID:       q.optInt("id"),
		Date:     q.optString("date"),
		League:   q.optInt("league"),
		Season:   q.optInt("season"),
		Team:     q.optInt("team"),
		Last:     q.optInt("last"),
		Next:     q.optInt("next"),
		From:     q.optString("from"),
		To:       q.optString("to"),
		Round:    q.optString("round"),
		Status:   q.optString("status"),
		Venue:    q.optInt("venue"),
		Timezone: q.optString("timezone"),
		Live:     q.optString("live"),
	}
	format := q.format()
	if q.err != nil {
		invalid(w, r, q.err)
		return
	}

	t, err := h.service.Fixtures(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	h.writeTable(w, r, format, t)
}

// HeadToHead handles GET /v1/h2h.
func (h *Football) HeadToHead(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := football.HeadToHeadParams{
		Team1:  q.reqInt("team1"),
		Team2:  q.reqInt("team2"),
		League: q.optInt("league"),
		Season: q.optInt("season"),
		Last:   q.optInt("last"),
		Status: q.optString("status"),
	}
	format := q.format()
	if q.err != nil {
		invalid(w, r, q.err)
		return
	}

	t, err := h.service.HeadToHead(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	h.writeTable(w, r, format, t)
}

// TeamStatistics handles GET /v1/teams/statistics.
func (h *Football) TeamStatistics(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := football.TeamStatisticsParams{
		League: q.reqInt("league"),
		Season: q.reqInt("season"),
		Team:   q.reqInt("team"),
		Date:   q.optString("date"),
	}
	format := q.format()
	if q.err != nil {
		invalid(w, r, q.err)
		return
	}

	record, err := h.service.TeamStatistics(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if format == output.FormatJSON {
		writeJSON(w, record)
		return
	}
	body, err := output.NewFormatter(format).FormatRecord(football.TeamStatisticsColumns, record)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeRendered(w, format, body)
}

// Seasons handles GET /v1/seasons.
func (h *Football) Seasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.service.Seasons(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, seasons)
}

// PlayerStats handles GET /v1/players. The payload is returned unflattened.
func (h *Football) PlayerStats(w http.ResponseWriter, r *http.Request) {
	q := newQueryReader(r)
	params := football.PlayerStatsParams{
		ID:     q.reqInt("id"),
		Season: q.reqInt("season"),
		Team:   q.optInt("team"),
		League: q.optInt("league"),
		Page:   q.optInt("page"),
	}
	if q.err != nil {
		invalid(w, r, q.err)
		return
	}

	payload, err := h.service.PlayerStats(r.Context(), params)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	writeJSON(w, payload)
}
