package cmd

import (
	"errors"

	"github.com/huangsam/repovalue/core"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
)

// unicornCmd scores a repository for breakout potential.
var unicornCmd = &cobra.Command{
	Use:   "unicorn <owner/repo>",
	Short: "Score a repository's unicorn potential 🦄",
	Long: `Compute the unicorn score (0-100), its tier and speculative valuation ranges.

The score blends seven components. Without codebase data the baseline weights
apply; --with-codebase runs the heuristic codebase estimate and switches to the
enriched weights. --with-packages looks the project up on npm, PyPI and crates.io
and reports its ecosystem adoption alongside the score.

Tiers:
- >= 90  unicorn
- >= 75  soaring
- >= 60  rising_star
- >= 45  promising
- >= 30  early_stage
-  < 30  seed_stage

Examples:
  # Baseline score
  repovalue unicorn octo/rocket

  # Full picture with codebase and registry data
  repovalue unicorn octo/rocket --with-codebase --with-packages --depth deep`,
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

		var analysis *schema.CodebaseAnalysis
		var stats schema.PackageStats
		var codebaseErr, packagesErr error

		var wg conc.WaitGroup
		if cfg.WithCodebase {
			wg.Go(func() {
				analysis, codebaseErr = svc.AnalyzeCodebase(rootCtx, data, cfg.Codebase)
			})
		}
		if cfg.WithPackages {
			wg.Go(func() {
				stats, packagesErr = svc.GetPackageStats(rootCtx, owner, repo, cfg.PackageName)
			})
		}
		wg.Wait()

		if codebaseErr != nil {
			contract.LogWarn("Codebase analysis skipped", codebaseErr)
		} else if analysis != nil && !analysis.Succeeded() {
			contract.LogWarn("Codebase analysis failed, using the baseline profile", errors.New(analysis.Error))
		}
		if packagesErr != nil {
			contract.LogWarn("Package lookup skipped", packagesErr)
		}

		include := analysis != nil && analysis.Succeeded()
		result := core.HuntUnicorn(data, analysis, include)
		if cfg.WithPackages {
			core.AttachAdoption(&result, stats)
		}
		if err := writer.WriteUnicorn(data.BasicInfo.Name, result, cfg); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}
