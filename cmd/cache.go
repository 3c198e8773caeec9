package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/internal/iocache"
	"github.com/huangsam/repovalue/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads only the configuration cache commands need.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return contract.ProcessCacheInputs(cfg, input)
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// openCacheWrapper also opens the response store for commands that read it.
func openCacheWrapper(cmd *cobra.Command, args []string) error {
	if err := cacheSetupWrapper(cmd, args); err != nil {
		return err
	}
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheTTL); err != nil {
		return err
	}
	if cacheManager == nil {
		cacheManager = iocache.Manager
	}
	return nil
}

// cacheCmd focused on cache management.
//
// Cache subcommands skip the full sharedSetup: they need the backend settings and nothing else.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the upstream response cache",
	Long: `Manage the cache of GitHub and package registry responses.

With a cache backend configured, successful GET responses are stored and served
again until they are older than --cache-ttl. This keeps repeated valuations of
the same repository inside the GitHub rate limit.

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, no caching)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached responses
  prune   - Remove responses older than the TTL
  migrate - Manage the cache schema

Examples:
  # Check cache status
  repovalue cache status --cache-backend sqlite

  # Drop responses older than a day
  repovalue cache prune --cache-backend sqlite --cache-ttl 24h`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached responses",
	Long: `Delete all cached responses from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear the SQLite cache
  repovalue cache clear --cache-backend sqlite

  # Clear a MySQL cache (set connection string via env variable)
  REPOVALUE_CACHE_BACKEND=mysql REPOVALUE_CACHE_DB_CONNECT="..." repovalue cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbPath := contract.GetCacheDBFilePath()
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.CacheDBConnect != "" {
			dbPath = cfg.CacheDBConnect
		}
		if err := iocache.ClearCache(cfg.CacheBackend, dbPath, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the response cache.

Displays:
- Backend type and connection status
- Total and expired entries
- Last and oldest entry timestamps
- Cache table size

Examples:
  repovalue cache status --cache-backend sqlite`,
	PreRunE: openCacheWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := cacheManager.GetResponseStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cachePruneCmd removes expired responses.
var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached responses older than the TTL",
	Long: `Delete every cached response older than --cache-ttl.

Examples:
  repovalue cache prune --cache-backend sqlite
  repovalue cache prune --cache-backend postgresql --cache-ttl 6h`,
	PreRunE: openCacheWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		before := time.Now().Add(-cfg.CacheTTL).Unix()
		removed, err := cacheManager.GetResponseStore().Prune(before)
		if err != nil {
			contract.LogFatal("Failed to prune cache", err)
		}
		fmt.Printf("Pruned %d cached responses older than %s.\n", removed, cfg.CacheTTL)
	},
}

// cacheMigrateCmd runs cache schema migrations.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the cache schema",
	Long: `Apply or roll back the response cache schema migrations.

--target-version -1 migrates to the latest version, 0 rolls everything back,
any other value migrates up or down to that version.

Examples:
  repovalue cache migrate --cache-backend sqlite
  repovalue cache migrate --cache-backend mysql --cache-db-connect "..." --target-version 0`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := iocache.MigrateCache(os.Stdout, cfg.CacheBackend, cfg.CacheDBConnect, target); err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
	},
}
