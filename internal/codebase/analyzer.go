// Package codebase estimates codebase quality from a repository's root directory listing.
// Every figure it produces is a heuristic; nothing here parses or executes source code.
package codebase

import (
	"context"
	"time"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
)

// Analyzer implements contract.CodebaseEstimator on top of a contents lister.
type Analyzer struct {
	lister contract.ContentsLister
	now    func() time.Time
}

var _ contract.CodebaseEstimator = &Analyzer{} // Compile-time check

// NewAnalyzer creates an Analyzer reading repositories through lister.
func NewAnalyzer(lister contract.ContentsLister) *Analyzer {
	return &Analyzer{lister: lister, now: time.Now}
}

// AnalyzeCodebase builds the requested sections of a codebase estimate.
// A missing repository or a cancelled context yields a failed record.
func (a *Analyzer) AnalyzeCodebase(ctx context.Context, owner, repo string, opts schema.CodebaseOptions) *schema.CodebaseAnalysis {
	if opts.Depth == "" {
		opts.Depth = schema.StandardDepth
	}
	timestamp := a.now().UTC().Format(time.RFC3339)

	if err := a.lister.CheckRepository(ctx, owner, repo); err != nil {
		return &schema.CodebaseAnalysis{Status: schema.StatusFailed, Error: err.Error(), AnalysisTimestamp: timestamp, Heuristic: true}
	}

	// An unreadable listing is analyzed as an empty repository.
	entries, err := a.lister.ListRoot(ctx, owner, repo)
	if err != nil {
		entries = nil
	}

	result := &schema.CodebaseAnalysis{
		Status:            schema.StatusSuccess,
		AnalysisTimestamp: timestamp,
		AnalysisDepth:     opts.Depth,
		Heuristic:         true,
	}
	if opts.Wants(schema.ComplexityMetrics) {
		result.CodeComplexity = estimateComplexity(entries)
	}
	if opts.Wants(schema.QualityMetrics) {
		result.QualityScores = estimateQuality(entries)
	}
	if opts.Wants(schema.TestMetrics) {
		result.TestCoverage = estimateTestCoverage(entries)
	}
	if opts.Wants(schema.DependencyMetrics) {
		result.Dependencies = a.estimateDependencies(ctx, owner, repo, entries, opts.ManifestReadLimit())
	}
	if opts.Wants(schema.ArchitectureMetrics) {
		result.Architecture = estimateArchitecture(entries)
	}
	if opts.Wants(schema.DocumentationMetrics) {
		result.Documentation = estimateDocumentation(entries)
	}
	if opts.Wants(schema.TechnologyMetrics) {
		result.TechnologyStack = estimateTechnology(entries)
	}

	if err := ctx.Err(); err != nil {
		return &schema.CodebaseAnalysis{Status: schema.StatusFailed, Error: err.Error(), AnalysisTimestamp: timestamp, Heuristic: true}
	}
	return result
}
