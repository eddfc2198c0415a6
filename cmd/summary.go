package cmd

import (
	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd prints the high-level view of a timesheet.
var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Show months, total hours and which projects stay in view.",
	Long: `Load a timesheet export and summarize it.

Prints the months covered, total hours, every project with its share of the
hours and whether it is kept as a main project or merged into Others, plus how
many rows were dropped for an unreadable date or non-positive units.

Without a file argument the most recently cached dataset is used.

Examples:
  # Summarize an export
  hoursight summary hours.xlsx

  # Only the last quarter
  hoursight summary hours.csv --start "3 months ago"

  # Machine-readable output
  hoursight summary hours.csv --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot summarize timesheet", err)
		}
	},
}
