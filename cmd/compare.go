package cmd

import (
	"github.com/huangsam/repovalue/core"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
	"github.com/spf13/cobra"
)

// compareCmd places a repository against the average-project benchmarks.
var compareCmd = &cobra.Command{
	Use:   "compare <owner/repo>",
	Short: "Compare a repository with market benchmarks",
	Long: `Compare stars, forks and contributors with an average open-source project.

Each percentile is round(100 x value / (value + average)), so a project at the
average lands on 50 and the figure approaches 100 as it pulls ahead.

Examples:
  repovalue compare octo/rocket
  repovalue compare octo/rocket --category "developer tools" --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		owner, repo, err := parseRepoArg(args[0])
		if err != nil {
			contract.LogFatal("Invalid repository", err)
		}
		data, err := mustService().AnalyzeRepository(rootCtx, owner, repo)
		if err != nil {
			contract.LogFatal("Cannot analyze repository", err)
		}
		metrics := schema.MarketMetrics{
			RepositoryMetrics: data.Metrics,
			Contributors:      data.Development.Contributors,
		}
		if err := writer.WriteMarket(core.CompareWithMarket(metrics, cfg.Category), cfg); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}
