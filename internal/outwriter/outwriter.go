// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRepository prints a repository snapshot using the configured output format.
func (ow *OutWriter) WriteRepository(data schema.RepoData, cfg *contract.Config) error {
	return WriteRepositoryResult(data, cfg)
}

// WriteValuation prints a valuation using the configured output format.
func (ow *OutWriter) WriteValuation(subject string, result schema.ValuationResult, cfg *contract.Config) error {
	return WriteValuationResult(subject, result, cfg)
}

// WriteUnicorn prints a unicorn hunter result using the configured output format.
func (ow *OutWriter) WriteUnicorn(subject string, result schema.UnicornResult, cfg *contract.Config) error {
	return WriteUnicornResult(subject, result, cfg)
}

// WriteCodebase prints a codebase estimate using the configured output format.
func (ow *OutWriter) WriteCodebase(subject string, analysis *schema.CodebaseAnalysis, cfg *contract.Config) error {
	return WriteCodebaseResult(subject, analysis, cfg)
}

// WritePackages prints registry statistics using the configured output format.
func (ow *OutWriter) WritePackages(stats schema.PackageStats, adoption float64, cfg *contract.Config) error {
	return WritePackageResult(stats, adoption, cfg)
}

// WriteAgent prints an agent result using the configured output format.
func (ow *OutWriter) WriteAgent(query string, result schema.AgentResult, cfg *contract.Config) error {
	return WriteAgentResult(query, result, cfg)
}

// WriteAgentHint prints the guidance for a query without a repository.
func (ow *OutWriter) WriteAgentHint(hint schema.AgentHint, cfg *contract.Config) error {
	return WriteAgentHint(hint, cfg)
}

// WriteMarket prints a market comparison using the configured output format.
func (ow *OutWriter) WriteMarket(result schema.MarketComparison, cfg *contract.Config) error {
	return WriteMarketResult(result, cfg)
}

// WriteRanking prints a unicorn leaderboard using the configured output format.
func (ow *OutWriter) WriteRanking(rows []schema.RankedRepository, cfg *contract.Config, duration time.Duration) error {
	return WriteRankResults(rows, cfg, duration)
}

// WriteWeights prints the scoring weights using the configured output format.
func (ow *OutWriter) WriteWeights(cfg *contract.Config) error {
	return WriteWeights(cfg)
}
