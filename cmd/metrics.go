package cmd

import (
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd shows the scoring weights behind every unicorn score.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the unicorn scoring weights and tiers",
	Long: `Show how the unicorn score is put together.

Displays:
- The baseline and enriched weight profiles
- The tier thresholds
- The scorecard factor weights
- The valuation cap

Examples:
  repovalue metrics
  repovalue metrics --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := writer.WriteWeights(cfg); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}
