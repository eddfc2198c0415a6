package cmd

import (
	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/spf13/cobra"
)

// developersCmd prints the month by developer matrix.
var developersCmd = &cobra.Command{
	Use:   "developers [file]",
	Short: "Show hours per developer and month, highest total first.",
	Long: `Show a month by developer table sorted by total hours.

Examples:
  # Ten busiest developers
  hoursight developers hours.csv --limit 10

  # Only this year
  hoursight developers hours.csv --start 2024-01 --end 2024-12`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDevelopers(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build developer breakdown", err)
		}
	},
}
