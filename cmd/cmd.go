// Package cmd defines the command-line interface for hoursight.
package cmd

import (
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(developersCmd)
	rootCmd.AddCommand(othersCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheListCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("start", "", "First month to include: YYYY-MM, YYYY-MM-DD or a phrase like '3 months ago'")
	rootCmd.PersistentFlags().String("end", "", "Last month to include, same formats as --start")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of developers to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Bool("owner", false, "Print the top developers of each project")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for hour columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Neither read nor write the dataset cache")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("history-backend", "", "Report history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for report history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of insightsCmd to Viper
	insightsCmd.Flags().String("user", "", "Developer to drill into (required)")
	insightsCmd.Flags().String("project", "", "Restrict the drill-down to one project")
	if err := viper.BindPFlags(insightsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding insights flags", err)
	}

	// Bind all flags of syncCmd to Viper
	syncCmd.Flags().Bool("count", false, "Only print how many rows the remote source holds")
	if err := viper.BindPFlags(syncCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sync flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "HTTP listen address (host:port)")
	serveCmd.Flags().Bool("watch", false, "Reload the input file when it changes")
	serveCmd.Flags().Bool("verbose", false, "Enable debug logging")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
