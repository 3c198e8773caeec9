package cmd

import (
	"errors"
	"strings"

	"github.com/huangsam/repovalue/core"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/spf13/cobra"
)

// askCmd routes a free-form question through the agent.
var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask about a repository in plain language",
	Long: `Answer a natural-language question about a GitHub repository.

The query must name the repository, as a github.com URL or an owner/repo pair.
Words like "unicorn" or "potential" run the unicorn hunter, adding "codebase"
or "code quality" folds in the codebase estimate. Words like "value" or "worth"
run a valuation. Anything else returns the analysis with a suggestion.

Examples:
  repovalue ask "Is langchain-ai/langchain a unicorn?"
  repovalue ask "What is https://github.com/octo/rocket worth?"
  repovalue ask "unicorn potential of octo/rocket including code quality"`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		result, err := mustService().RunAgent(rootCtx, query)
		if errors.Is(err, core.ErrNoRepository) {
			if err := writer.WriteAgentHint(core.NewAgentHint(), cfg); err != nil {
				contract.LogFatal("Cannot write results", err)
			}
			return
		}
		if err != nil {
			contract.LogFatal("Cannot answer query", err)
		}
		if err := writer.WriteAgent(query, *result, cfg); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}
