package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matchlens/matchlens/internal/apisports"
	"github.com/matchlens/matchlens/internal/football"
	"github.com/matchlens/matchlens/internal/observability"
)

const endpointStatus = "status"

var quotaColumns = []string{"remaining", "limit", "plan", "active", "requests_today", "requests_limit_day", "request_id"}

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the remaining daily API quota",
	Long: `Probe the API and issue one /status request, then print the quota headers and
subscription details. /status requests do not count against the quota.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := newRenderer(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		s, err := newSession(ctx, appConfig, false, observability.CLILogger)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		result, err := s.client.Execute(ctx, endpointStatus, nil)
		if err != nil && !errors.Is(err, apisports.ErrQuotaExhausted) {
			return err
		}
		if renderErr := out.record(quotaColumns, quotaRecord(result)); renderErr != nil {
			return renderErr
		}
		return err
	},
}

// quotaRecord combines the observed headers with the /status body.
func quotaRecord(result *apisports.Result) football.Record {
	rec := football.Record{}
	for _, name := range quotaColumns {
		rec[name] = nil
	}
	if result == nil {
		return rec
	}

	rec["request_id"] = result.RequestID
	if result.Quota.Known {
		rec["remaining"] = result.Quota.Remaining
		rec["limit"] = result.Quota.Limit
	}

	status, _ := result.Payload["response"].(map[string]any)
	if subscription, ok := status["subscription"].(map[string]any); ok {
		rec["plan"] = subscription["plan"]
		rec["active"] = subscription["active"]
	}
	if requests, ok := status["requests"].(map[string]any); ok {
		rec["requests_today"] = requests["current"]
		rec["requests_limit_day"] = requests["limit_day"]
	}
	return rec
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}
