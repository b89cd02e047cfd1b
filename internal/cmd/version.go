package cmd

import (
	"fmt"
	"runtime"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"

	"github.com/matchlens/matchlens/internal/config"
)

var extended bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for full details including Crucible and Go versions.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s\n", config.AppName, versionInfo.Version)
		if !extended {
			return nil
		}

		version := crucible.GetVersion()
		fmt.Fprintf(w, "Commit: %s\n", versionInfo.Commit)
		fmt.Fprintf(w, "Built: %s\n", versionInfo.BuildDate)
		fmt.Fprintf(w, "Go: %s\n\n", runtime.Version())
		fmt.Fprintf(w, "Gofulmen: %s\n", version.Gofulmen)
		fmt.Fprintf(w, "Crucible: %s\n", version.Crucible)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&extended, "extended", "e", false, "show extended version information")
}
