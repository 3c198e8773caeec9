package cmd

import (
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd fetches the repository snapshot every valuation starts from.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner/repo>",
	Short: "Fetch repository metrics, scores and development activity",
	Long: `Fetch a repository snapshot from the GitHub API.

Reports:
- Stars, forks, watchers and open issues
- Health, activity, community and overall scores (0-1)
- Commits and contributors over the trailing weeks

Examples:
  # Analyze a repository
  repovalue analyze langchain-ai/langchain

  # Same, as JSON
  repovalue analyze https://github.com/langchain-ai/langchain --output json`,
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
		if err := writer.WriteRepository(data, cfg); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}
