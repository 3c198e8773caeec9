// Package core has the tool-level operations that sit between the collaborators and the valuation engine.
package core

import (
	"context"
	"strings"

	"github.com/huangsam/repovalue/core/algo"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
)

// Service runs operations against the repository, codebase and registry collaborators.
type Service struct {
	repos    contract.RepositoryFetcher
	codebase contract.CodebaseEstimator
	packages contract.PackageLookup
}

// NewService wires the collaborators. Any of them may be nil when the caller never needs it.
func NewService(repos contract.RepositoryFetcher, codebase contract.CodebaseEstimator, packages contract.PackageLookup) *Service {
	return &Service{repos: repos, codebase: codebase, packages: packages}
}

// AnalyzeRepository fetches the repository snapshot for owner/repo.
func (s *Service) AnalyzeRepository(ctx context.Context, owner, repo string) (schema.RepoData, error) {
	owner, repo, err := requireOwnerRepo(owner, repo)
	if err != nil {
		return schema.RepoData{}, err
	}
	return s.repos.AnalyzeRepository(ctx, owner, repo)
}

// AnalyzeCodebase estimates codebase quality for the repository named in data.
// Estimator failures come back inside the record, not as an error.
func (s *Service) AnalyzeCodebase(ctx context.Context, data schema.RepoData, opts schema.CodebaseOptions) (*schema.CodebaseAnalysis, error) {
	owner, repo, err := data.OwnerRepo()
	if err != nil {
		return nil, err
	}
	return s.codebase.AnalyzeCodebase(ctx, owner, repo, opts), nil
}

// GetPackageStats looks the repository up on the package registries.
func (s *Service) GetPackageStats(ctx context.Context, owner, repo, packageName string) (schema.PackageStats, error) {
	owner, repo, err := requireOwnerRepo(owner, repo)
	if err != nil {
		return schema.PackageStats{}, err
	}
	return s.packages.GetPackageStats(ctx, owner, repo, packageName), nil
}

// HuntUnicorn scores a repository. The codebase record only counts when include is set.
func HuntUnicorn(data schema.RepoData, codebase *schema.CodebaseAnalysis, include bool) schema.UnicornResult {
	if !include {
		codebase = nil
	}
	return algo.HuntUnicorn(data, codebase)
}

// AttachAdoption records a successful registry hit on a unicorn result and returns its adoption score.
// Unsuccessful lookups leave the result untouched and score 0.
func AttachAdoption(result *schema.UnicornResult, stats schema.PackageStats) float64 {
	if !stats.Succeeded() {
		return 0
	}
	score := AdoptionScore(stats)
	result.EcosystemAdoption = &schema.EcosystemAdoption{
		PackageManager: stats.PackageManager,
		AdoptionScore:  score,
		PackageName:    stats.PackageName,
	}
	return score
}

// AdoptionScore maps a registry lookup onto the 0-100 adoption scale, one decimal place.
// Unsuccessful lookups score 0.
func AdoptionScore(stats schema.PackageStats) float64 {
	if !stats.Succeeded() {
		return 0
	}
	return algo.Round(algo.AdoptionScore(stats), 1)
}

func requireOwnerRepo(owner, repo string) (string, string, error) {
	owner, repo = strings.TrimSpace(owner), strings.TrimSpace(repo)
	if owner == "" {
		return "", "", &schema.MissingFieldError{Field: "owner"}
	}
	if repo == "" {
		return "", "", &schema.MissingFieldError{Field: "repo"}
	}
	return owner, repo, nil
}
