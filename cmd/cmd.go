// Package cmd defines the command-line interface for repovalue.
package cmd

import (
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(valueCmd)
	rootCmd.AddCommand(unicornCmd)
	rootCmd.AddCommand(codebaseCmd)
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to (required for parquet)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Prefix report titles with emoji (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token (defaults to the GITHUB_TOKEN environment variable)")
	rootCmd.PersistentFlags().String("github-api-url", "", "GitHub API base URL for GitHub Enterprise (default https://api.github.com/)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultGitHubTimeout.String(), "Timeout for each GitHub API request")
	rootCmd.PersistentFlags().String("registry-timeout", contract.DefaultRegistryTimeout.String(), "Timeout for each package registry request")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent repository fetches")
	rootCmd.PersistentFlags().String("depth", string(schema.StandardDepth), "Codebase analysis depth: quick or standard or deep")
	rootCmd.PersistentFlags().String("include", "", "Comma-separated codebase metric categories (default all)")
	rootCmd.PersistentFlags().Bool("with-codebase", false, "Run the heuristic codebase analysis and use it for scoring")
	rootCmd.PersistentFlags().String("package-name", "", "Package name on the registries (defaults to the repository name)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.NoneBackend), "Response cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long cached upstream responses stay fresh")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of valueCmd to Viper
	valueCmd.Flags().String("method", string(schema.Scorecard), "Valuation method: cost_based or market_based or income_based or scorecard or unicorn_hunter")
	valueCmd.Flags().Int("team-size", schema.DefaultTeamSize, "Developers assumed by the cost model")
	valueCmd.Flags().Float64("hourly-rate", schema.DefaultHourlyRate, "Hourly rate in USD assumed by the cost model")
	valueCmd.Flags().Int("development-months", schema.DefaultDevelopmentMonths, "Months of development assumed by the cost model")
	valueCmd.Flags().Float64("market-multiplier", schema.DefaultMarketMultiplier, "Multiplier applied to the per-star market value")
	valueCmd.Flags().Float64("annual-revenue", 0, "Known annual revenue in USD for income_based (0 = estimate from stars)")
	if err := viper.BindPFlags(valueCmd.Flags()); err != nil {
		contract.LogFatal("Error binding value flags", err)
	}

	// Bind all flags of unicornCmd to Viper
	unicornCmd.Flags().Bool("with-packages", false, "Look the package up on npm, PyPI and crates.io and report its adoption")
	if err := viper.BindPFlags(unicornCmd.Flags()); err != nil {
		contract.LogFatal("Error binding unicorn flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().String("category", contract.DefaultCategory, "Market category label for the comparison")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of rankCmd to Viper
	rankCmd.Flags().IntP("limit", "l", contract.DefaultResultLimit, "Number of repositories to display")
	if err := viper.BindPFlags(rankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address the HTTP server listens on")
	serveCmd.Flags().String("allowed-origins", "*", "Comma-separated CORS origins allowed to call the server")
	serveCmd.Flags().String("log-level", "info", "Request log level: debug or info or warn or error")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
