package cmd

import (
	"github.com/huangsam/repovalue/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the valuation MCP server on stdio",
	Long: `Launch an MCP server over stdio so AI agents can call the valuation tools.

Tools:
  analyze_github_repository, calculate_valuation, compare_with_market, agent_executor,
  analyze_codebase, get_package_stats, unicorn_hunter

Optional tool arguments fall back to the CLI configuration, so flags such as
--depth and --method set the defaults agents see.`,
	// stdout carries the protocol, so nothing else may print there.
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, mcp.NewToolset(svc, cfg))
	},
}
