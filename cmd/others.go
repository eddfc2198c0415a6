package cmd

import (
	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/spf13/cobra"
)

// othersCmd drills into the Others bucket.
var othersCmd = &cobra.Command{
	Use:   "others [file]",
	Short: "List the projects merged into Others.",
	Long: `List every project merged into the Others row with its hours and share
of the Others total.

Examples:
  hoursight others hours.xlsx`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteOthers(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list other projects", err)
		}
	},
}
