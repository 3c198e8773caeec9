package cmd

import (
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/spf13/cobra"
)

// codebaseCmd runs the heuristic codebase estimate on its own.
var codebaseCmd = &cobra.Command{
	Use:   "codebase <owner/repo>",
	Short: "Estimate codebase quality from the repository tree",
	Long: `Estimate complexity, quality, tests, dependencies, architecture and documentation.

The estimate reads the repository root listing and its manifests through the GitHub API.
It is a heuristic: values are bounded and deterministic for a given repository,
not measured by running any tooling.

Depth controls how many dependency manifests are read:
- quick:    one manifest
- standard: up to three manifests (default)
- deep:     every manifest found in the root

Examples:
  # Standard estimate
  repovalue codebase octo/rocket

  # Only the test and documentation categories
  repovalue codebase octo/rocket --include tests,documentation --output yaml`,
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
		analysis, err := svc.AnalyzeCodebase(rootCtx, data, cfg.Codebase)
		if err != nil {
			contract.LogFatal("Cannot analyze codebase", err)
		}
		if err := writer.WriteCodebase(data.BasicInfo.Name, analysis, cfg); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}
