package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/iocache"
	"github.com/huangsam/hoursight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no history tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by report commands. This skips input file
// resolution and month range parsing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the dataset cache",
	Long: `Manage the cache of loaded timesheet files and synced remote rows.

Every loaded file is cached under its base name for 24 hours so later commands
can run without a file argument. Rows fetched by sync are cached for a year.
At most five files are kept; the oldest goes first.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  list   - Show cached datasets with their age
  clear  - Remove all cached data

Examples:
  # Check cache status
  hoursight cache status

  # See what is cached
  hoursight cache list`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached datasets",
	Long: `Delete all cached datasets from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  hoursight cache clear

  # Clear MySQL cache (set connection string via env variable)
  HOURSIGHT_CACHE_BACKEND=mysql HOURSIGHT_CACHE_DB_CONNECT="..." hoursight cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle before the file is removed
		iocache.CloseStores()
		if err := iocache.ClearCache(cfg.CacheBackend, sqliteFilePath(cfg.CacheDBConnect, contract.GetCacheDBFilePath()), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the dataset cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  hoursight cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetDatasetStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}

// cacheListCmd lists cached datasets.
var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached datasets with their age and size",
	Long: `List every cached dataset, newest first.

The REMOTE_CACHE entry holds the rows of the last sync and is never evicted.

Examples:
  hoursight cache list`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		entries, err := iocache.Manager.GetDatasetStore().List()
		if err != nil {
			contract.LogFatal("Failed to list cache entries", err)
		}
		if err := iocache.PrintCacheList(os.Stdout, entries, time.Now()); err != nil {
			contract.LogFatal("Failed to print cache entries", err)
		}
	},
}
