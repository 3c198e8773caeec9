package cmd

import (
	"runtime"

	"github.com/huangsam/repovalue/internal/mcp"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of repovalue.",
	Long: `Display version information including build details.

Shows:
- Release version
- Git commit hash
- Build timestamp
- Go runtime version
- MCP tool server version`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("repovalue CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
		cmd.Printf("  Tools:   %s %s\n", mcp.ServerName, mcp.Version)
	},
}
