package cmd

import (
	"github.com/huangsam/hoursight/core"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/remote"
	"github.com/spf13/cobra"
)

// syncCmd pulls rows from the remote source into the cache.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch time entries from the remote source and cache them.",
	Long: `Fetch time entries from the configured REST source, cache them, and print
the summary. Later commands without a file argument reuse the cached rows.

Without --start/--end the last three months are fetched.

Configure the source in .hoursight.yaml:

  remote:
    url: https://example.supabase.co
    table: openproject_timeentries
    limit: 1000

and keep the key in the environment: HOURSIGHT_REMOTE_KEY=...

Examples:
  # Fetch and summarize the last three months
  hoursight sync

  # How many rows would a full year fetch?
  hoursight sync --start 2024-01 --end 2024-12 --count`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client, err := remote.New(nil, cfg.Remote)
		if err != nil {
			contract.LogFatal("Cannot configure remote source", err)
		}
		if err := core.ExecuteSync(rootCtx, cfg, cacheManager, client); err != nil {
			contract.LogFatal("Cannot sync remote source", err)
		}
	},
}
