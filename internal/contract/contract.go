// Package contract provides interfaces and shared utilities for repovalue's internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/repovalue/schema"
)

// RepositoryFetcher returns repository metadata for an owner/name pair.
// A missing repository is reported as schema.ErrRepositoryNotFound.
type RepositoryFetcher interface {
	AnalyzeRepository(ctx context.Context, owner, repo string) (schema.RepoData, error)
}

// ContentsLister exposes the parts of a repository's file tree the codebase estimator reads.
type ContentsLister interface {
	// CheckRepository returns schema.ErrRepositoryNotFound when the repository does not exist.
	CheckRepository(ctx context.Context, owner, repo string) error

	// ListRoot returns the root directory listing. It never recurses.
	ListRoot(ctx context.Context, owner, repo string) ([]schema.ContentEntry, error)

	// ReadFile returns the decoded content of a single file.
	ReadFile(ctx context.Context, owner, repo, path string) ([]byte, error)
}

// CodebaseEstimator produces a heuristic codebase estimate.
// Failures are reported in the returned record with status "failed", never as a Go error.
type CodebaseEstimator interface {
	AnalyzeCodebase(ctx context.Context, owner, repo string, opts schema.CodebaseOptions) *schema.CodebaseAnalysis
}

// PackageLookup finds download statistics on the package registries.
// A package found nowhere is reported with status "not_found".
type PackageLookup interface {
	GetPackageStats(ctx context.Context, owner, repo, packageName string) schema.PackageStats
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
}

// CacheStore defines the interface for cached upstream responses.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Prune(before int64) (int64, error)
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
