package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/repovalue/core"
	"github.com/huangsam/repovalue/internal/codebase"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/internal/ghclient"
	"github.com/huangsam/repovalue/internal/iocache"
	"github.com/huangsam/repovalue/internal/outwriter"
	"github.com/huangsam/repovalue/internal/registry"
	"github.com/huangsam/repovalue/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = contract.NewDefaultConfig()

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global cache manager instance.
var cacheManager contract.CacheManager

// writer renders every command result.
var writer = outwriter.NewOutWriter()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "repovalue",
	Short:              "Estimate what a GitHub repository is worth.",
	Long:               `Repovalue turns public repository metadata into bounded scores, a unicorn tier and speculative valuation ranges.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".repovalue") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("REPOVALUE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("method", schema.Scorecard)
	viper.SetDefault("team-size", schema.DefaultTeamSize)
	viper.SetDefault("hourly-rate", schema.DefaultHourlyRate)
	viper.SetDefault("development-months", schema.DefaultDevelopmentMonths)
	viper.SetDefault("market-multiplier", schema.DefaultMarketMultiplier)
	viper.SetDefault("category", contract.DefaultCategory)
	viper.SetDefault("depth", schema.StandardDepth)
	viper.SetDefault("cache-backend", schema.NoneBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("cache-ttl", contract.DefaultCacheTTL.String())
	viper.SetDefault("addr", contract.DefaultAddr)
	viper.SetDefault("log-level", "info")
	viper.SetDefault("color", "yes")
	viper.SetDefault("emoji", "no")
}

// loadConfigFile reads the config file if one is present.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the response cache.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColors

	// 4. Initialize the response cache with validated config
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheTTL); err != nil {
		return err
	}
	if cacheManager == nil {
		cacheManager = iocache.Manager
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// upstreamTransport retries rate-limited requests and, when a cache backend is
// configured, serves repeated GETs from the response store.
func upstreamTransport() http.RoundTripper {
	var transport http.RoundTripper = &ghclient.RetryTransport{}
	if cfg.CacheBackend == schema.NoneBackend || cacheManager == nil {
		return transport
	}
	if store := cacheManager.GetResponseStore(); store != nil {
		transport = iocache.NewCachingTransport(store, cfg.CacheTTL, transport)
	}
	return transport
}

// newService wires the GitHub, codebase and registry collaborators.
func newService() (*core.Service, error) {
	transport := upstreamTransport()
	gh, err := ghclient.NewClient(ghclient.Options{
		Token:     cfg.GitHubToken,
		BaseURL:   cfg.GitHubAPIURL,
		Timeout:   cfg.GitHubTimeout,
		Transport: transport,
	})
	if err != nil {
		return nil, err
	}
	packages := registry.NewClient(registry.Options{
		Timeout:   cfg.RegistryTimeout,
		Transport: transport,
	})
	return core.NewService(gh, codebase.NewAnalyzer(gh), packages), nil
}

// mustService is newService for command Run functions.
func mustService() *core.Service {
	svc, err := newService()
	if err != nil {
		contract.LogFatal("Cannot create GitHub client", err)
	}
	return svc
}

// parseRepoArg splits an "owner/repo" argument or a github.com URL.
func parseRepoArg(arg string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(arg)
	if o, r, ok := core.ExtractRepository(trimmed); ok && strings.Contains(strings.ToLower(trimmed), "github.com/") {
		return o, r, nil
	}
	probe := schema.RepoData{BasicInfo: schema.BasicInfo{Name: strings.TrimSuffix(trimmed, ".git")}}
	return probe.OwnerRepo()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
