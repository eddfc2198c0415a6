package cmd

import (
	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/spf13/cobra"
)

// projectsCmd prints the month by project matrix.
var projectsCmd = &cobra.Command{
	Use:   "projects [file]",
	Short: "Show hours per project and month.",
	Long: `Show a month by project table for the main projects.

Projects outside the top ranks that also fall below the small-share threshold
are merged into a single Others row at the bottom. Tune this with the
bucketing section of the config file.

Examples:
  # Month by project table
  hoursight projects hours.xlsx

  # Include the top developers of each project
  hoursight projects hours.xlsx --owner

  # Export for a spreadsheet
  hoursight projects hours.xlsx --output csv --output-file projects.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProjects(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build project breakdown", err)
		}
	},
}
