package cmd

import (
	"errors"

	"github.com/huangsam/repovalue/core"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
	"github.com/spf13/cobra"
)

// valueCmd runs one valuation method over a freshly fetched snapshot.
var valueCmd = &cobra.Command{
	Use:   "value <owner/repo>",
	Short: "Value a repository with one valuation method",
	Long: `Calculate a valuation for a repository.

Methods:
- cost_based:     team size x hourly rate x 160 hours x months
- market_based:   stars x $1000 x --market-multiplier, or the comparables' dollars per star x multiplier
- income_based:   revenue x 3 / 1.15 (revenue from --annual-revenue, else stars x $100)
- scorecard:      weighted factors mapped to a low/medium/high range (default)
- unicorn_hunter: speculative unicorn score and ranges capped at $1B

Market comparables are read from the config file:

  comparables:
    - name: similar-project
      value: 150000
      stars: 100

Examples:
  # Scorecard valuation
  repovalue value octo/rocket

  # Cost model for a team of three over a year
  repovalue value octo/rocket --method cost_based --team-size 3 --development-months 12

  # Unicorn hunter with the codebase estimate folded in
  repovalue value octo/rocket --method unicorn_hunter --with-codebase`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		owner, repo, err := parseRepoArg(args[0])
		if err != nil {
			contract.LogFatal("Invalid repository", err)
		}
		svc := mustService()
		data, err := svc.AnalyzeRepository(rootCtx, owner, repo)
		if err != nil {
			contract.LogFatal("Cannot analyze repository", err)
		}

		opts := core.ValuationOptions{
			Comparables:   cfg.Comparables,
			AnnualRevenue: cfg.AnnualRevenue,
		}
		if cfg.Method == schema.UnicornHunter && cfg.WithCodebase {
			analysis, err := svc.AnalyzeCodebase(rootCtx, data, cfg.Codebase)
			if err != nil {
				contract.LogFatal("Cannot analyze codebase", err)
			}
			if analysis.Succeeded() {
				opts.Codebase = analysis
			} else {
				contract.LogWarn("Codebase analysis failed, using the baseline profile", errors.New(analysis.Error))
			}
		}

		result, err := core.CalculateValuation(cfg.ValuationInputs(data), cfg.Method, opts)
		if err != nil {
			contract.LogFatal("Cannot calculate valuation", err)
		}
		if err := writer.WriteValuation(data.BasicInfo.Name, result, cfg); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}
