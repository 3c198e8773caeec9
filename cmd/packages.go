package cmd

import (
	"github.com/huangsam/repovalue/core"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/spf13/cobra"
)

// packagesCmd looks a project up on the package registries.
var packagesCmd = &cobra.Command{
	Use:   "packages <owner/repo>",
	Short: "Look a project up on npm, PyPI and crates.io",
	Long: `Find the first registry that publishes the project and report its download counts.

Registries are tried in order: npm, PyPI, crates.io. The package name defaults
to the repository name; override it with --package-name.

Examples:
  repovalue packages expressjs/express
  repovalue packages psf/requests --package-name requests --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		owner, repo, err := parseRepoArg(args[0])
		if err != nil {
			contract.LogFatal("Invalid repository", err)
		}
		stats, err := mustService().GetPackageStats(rootCtx, owner, repo, cfg.PackageName)
		if err != nil {
			contract.LogFatal("Cannot look up packages", err)
		}
		if err := writer.WritePackages(stats, core.AdoptionScore(stats), cfg); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}
