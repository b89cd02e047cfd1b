package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matchlens/matchlens/internal/football"
	"github.com/matchlens/matchlens/internal/observability"
)

// runWithService opens a cached session and hands the adapter service to fn.
func runWithService(cmd *cobra.Command, fn func(ctx context.Context, svc *football.Service, out *renderer) error) error {
	out, err := newRenderer(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := newSession(ctx, appConfig, true, observability.CLILogger)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	return fn(ctx, s.service, out)
}

func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil
	}
	return &v
}

func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

func teamArg(value, label string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a numeric team id, got %q", label, value)
	}
	return id, nil
}

var leaguesCmd = &cobra.Command{
	Use:   "leagues",
	Short: "List leagues and cups with their current season",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := football.LeagueParams{
			ID:      intFlag(cmd, "id"),
			Name:    stringFlag(cmd, "name"),
			Country: stringFlag(cmd, "country"),
			Code:    stringFlag(cmd, "code"),
			Season:  intFlag(cmd, "season"),
			Team:    intFlag(cmd, "team"),
			Type:    stringFlag(cmd, "type"),
			Current: boolFlag(cmd, "current"),
			Search:  stringFlag(cmd, "search"),
			Last:    intFlag(cmd, "last"),
		}
		return runWithService(cmd, func(ctx context.Context, svc *football.Service, out *renderer) error {
			t, err := svc.Leagues(ctx, params)
			if err != nil {
				return err
			}
			return out.table(t)
		})
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show league tables, one row per team and group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := football.StandingsParams{
			League: intFlag(cmd, "league"),
			Season: intFlag(cmd, "season"),
			Team:   intFlag(cmd, "team"),
		}
		return runWithService(cmd, func(ctx context.Context, svc *football.Service, out *renderer) error {
			t, err := svc.Standings(ctx, params)
			if err != nil {
				return err
			}
			return out.table(t)
		})
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "List fixtures with scores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := football.FixtureParams{
			ID:       intFlag(cmd, "id"),
			Date:     stringFlag(cmd, "date"),
			League:   intFlag(cmd, "league"),
			Season:   intFlag(cmd, "season"),
			Team:     intFlag(cmd, "team"),
			Last:     intFlag(cmd, "last"),
			Next:     intFlag(cmd, "next"),
			From:     stringFlag(cmd, "from"),
			To:       stringFlag(cmd, "to"),
			Round:    stringFlag(cmd, "round"),
			Status:   stringFlag(cmd, "status"),
			Venue:    intFlag(cmd, "venue"),
			Timezone: stringFlag(cmd, "timezone"),
			Live:     stringFlag(cmd, "live"),
		}
		return runWithService(cmd, func(ctx context.Context, svc *football.Service, out *renderer) error {
			t, err := svc.Fixtures(ctx, params)
			if err != nil {
				return err
			}
			return out.table(t)
		})
	},
}

var h2hCmd = &cobra.Command{
	Use:   "h2h <team1> <team2>",
	Short: "Show fixtures between two teams with the winner of each",
	Long: `Fetch fixtures for team1 and keep those where team2 is the home or away side.
The winner column holds the winning team's name or "Draw".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		team1, err := teamArg(args[0], "team1")
		if err != nil {
			return err
		}
		team2, err := teamArg(args[1], "team2")
		if err != nil {
			return err
		}
		params := football.HeadToHeadParams{
			Team1:  team1,
			Team2:  team2,
			League: intFlag(cmd, "league"),
			Season: intFlag(cmd, "season"),
			Last:   intFlag(cmd, "last"),
			Status: stringFlag(cmd, "status"),
		}
		return runWithService(cmd, func(ctx context.Context, svc *football.Service, out *renderer) error {
			t, err := svc.HeadToHead(ctx, params)
			if err != nil {
				return err
			}
			return out.table(t)
		})
	},
}

var teamStatsCmd = &cobra.Command{
	Use:   "team-stats",
	Short: "Summarize one team's season: form, goals, cards and formation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		league, _ := cmd.Flags().GetInt("league")
		season, _ := cmd.Flags().GetInt("season")
		team, _ := cmd.Flags().GetInt("team")
		params := football.TeamStatisticsParams{
			League: league,
			Season: season,
			Team:   team,
			Date:   stringFlag(cmd, "date"),
		}
		return runWithService(cmd, func(ctx context.Context, svc *football.Service, out *renderer) error {
			rec, err := svc.TeamStatistics(ctx, params)
			if err != nil {
				return err
			}
			return out.record(football.TeamStatisticsColumns, rec)
		})
	},
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List the season years known to the provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWithService(cmd, func(ctx context.Context, svc *football.Service, out *renderer) error {
			seasons, err := svc.Seasons(ctx)
			if err != nil {
				return err
			}
			t := &football.Table{Columns: []string{"season"}}
			for _, season := range seasons {
				t.Rows = append(t.Rows, football.Record{"season": season})
			}
			return out.table(t)
		})
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Fetch raw statistics for one player and season",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetInt("id")
		season, _ := cmd.Flags().GetInt("season")
		params := football.PlayerStatsParams{
			ID:     id,
			Season: season,
			Team:   intFlag(cmd, "team"),
			League: intFlag(cmd, "league"),
			Page:   intFlag(cmd, "page"),
		}
		return runWithService(cmd, func(ctx context.Context, svc *football.Service, out *renderer) error {
			payload, err := svc.PlayerStats(ctx, params)
			if err != nil {
				return err
			}
			return out.raw(payload)
		})
	},
}

func init() {
	rootCmd.AddCommand(leaguesCmd, standingsCmd, fixturesCmd, h2hCmd, teamStatsCmd, seasonsCmd, playersCmd)

	lf := leaguesCmd.Flags()
	lf.Int("id", 0, "league id")
	lf.String("name", "", "league name")
	lf.String("country", "", "country name")
	lf.String("code", "", "country code, e.g. GB")
	lf.Int("season", 0, "season year, e.g. 2023")
	lf.Int("team", 0, "team id")
	lf.String("type", "", "league or cup")
	lf.Bool("current", false, "only leagues with an active season")
	lf.String("search", "", "search by name or country")
	lf.Int("last", 0, "last N leagues added")

	sf := standingsCmd.Flags()
	sf.Int("league", 0, "league id")
	sf.Int("season", 0, "season year")
	sf.Int("team", 0, "team id")

	ff := fixturesCmd.Flags()
	ff.Int("id", 0, "fixture id")
	ff.String("date", "", "date (YYYY-MM-DD)")
	ff.Int("league", 0, "league id")
	ff.Int("season", 0, "season year")
	ff.Int("team", 0, "team id")
	ff.Int("last", 0, "last N fixtures")
	ff.Int("next", 0, "next N fixtures")
	ff.String("from", "", "start date (YYYY-MM-DD)")
	ff.String("to", "", "end date (YYYY-MM-DD)")
	ff.String("round", "", "round name")
	ff.String("status", "", "status short code, e.g. FT or NS-PST")
	ff.Int("venue", 0, "venue id")
	ff.String("timezone", "", "timezone, e.g. Europe/London")
	ff.String("live", "", `"all" or league ids joined by "-"`)

	hf := h2hCmd.Flags()
	hf.Int("league", 0, "league id")
	hf.Int("season", 0, "season year")
	hf.Int("last", 0, "last N fixtures of team1")
	hf.String("status", "", "status short code")

	tf := teamStatsCmd.Flags()
	tf.Int("league", 0, "league id")
	tf.Int("season", 0, "season year")
	tf.Int("team", 0, "team id")
	tf.String("date", "", "statistics up to this date (YYYY-MM-DD)")
	for _, name := range []string{"league", "season", "team"} {
		_ = teamStatsCmd.MarkFlagRequired(name)
	}

	pf := playersCmd.Flags()
	pf.Int("id", 0, "player id")
	pf.Int("season", 0, "season year")
	pf.Int("team", 0, "team id")
	pf.Int("league", 0, "league id")
	pf.Int("page", 0, "result page")
	_ = playersCmd.MarkFlagRequired("id")
	_ = playersCmd.MarkFlagRequired("season")
}
