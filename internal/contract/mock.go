package contract

import (
	"context"

	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/mock"
)

// MockRepositoryFetcher is a mock implementation of RepositoryFetcher for testing.
type MockRepositoryFetcher struct {
	mock.Mock
}

var _ RepositoryFetcher = &MockRepositoryFetcher{} // Compile-time check

// AnalyzeRepository implements the RepositoryFetcher interface.
func (m *MockRepositoryFetcher) AnalyzeRepository(ctx context.Context, owner, repo string) (schema.RepoData, error) {
	args := m.Called(ctx, owner, repo)
	return args.Get(0).(schema.RepoData), args.Error(1)
}

// MockContentsLister is a mock implementation of ContentsLister for testing.
type MockContentsLister struct {
	mock.Mock
}

var _ ContentsLister = &MockContentsLister{} // Compile-time check

// CheckRepository implements the ContentsLister interface.
func (m *MockContentsLister) CheckRepository(ctx context.Context, owner, repo string) error {
	args := m.Called(ctx, owner, repo)
	return args.Error(0)
}

// ListRoot implements the ContentsLister interface.
func (m *MockContentsLister) ListRoot(ctx context.Context, owner, repo string) ([]schema.ContentEntry, error) {
	args := m.Called(ctx, owner, repo)
	entries, _ := args.Get(0).([]schema.ContentEntry)
	return entries, args.Error(1)
}

// ReadFile implements the ContentsLister interface.
func (m *MockContentsLister) ReadFile(ctx context.Context, owner, repo, path string) ([]byte, error) {
	args := m.Called(ctx, owner, repo, path)
	content, _ := args.Get(0).([]byte)
	return content, args.Error(1)
}

// MockCodebaseEstimator is a mock implementation of CodebaseEstimator for testing.
type MockCodebaseEstimator struct {
	mock.Mock
}

var _ CodebaseEstimator = &MockCodebaseEstimator{} // Compile-time check

// AnalyzeCodebase implements the CodebaseEstimator interface.
func (m *MockCodebaseEstimator) AnalyzeCodebase(ctx context.Context, owner, repo string, opts schema.CodebaseOptions) *schema.CodebaseAnalysis {
	args := m.Called(ctx, owner, repo, opts)
	analysis, _ := args.Get(0).(*schema.CodebaseAnalysis)
	return analysis
}

// MockPackageLookup is a mock implementation of PackageLookup for testing.
type MockPackageLookup struct {
	mock.Mock
}

var _ PackageLookup = &MockPackageLookup{} // Compile-time check

// GetPackageStats implements the PackageLookup interface.
func (m *MockPackageLookup) GetPackageStats(ctx context.Context, owner, repo, packageName string) schema.PackageStats {
	args := m.Called(ctx, owner, repo, packageName)
	return args.Get(0).(schema.PackageStats)
}
