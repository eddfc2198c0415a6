package cmd

import (
	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/spf13/cobra"
)

// insightsCmd drills into one developer.
var insightsCmd = &cobra.Command{
	Use:   "insights [file]",
	Short: "Show one developer's hours per project and month.",
	Long: `Break a developer's hours down by project and month, biggest project first.

Examples:
  # Everything Alice worked on
  hoursight insights hours.xlsx --user Alice

  # Only one project
  hoursight insights hours.xlsx --user Alice --project Apollo`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteInsights(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build developer insights", err)
		}
	},
}
