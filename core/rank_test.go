package core

import (
	"context"
	"testing"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func hugeRepo() schema.RepoData {
	return schema.RepoData{
		BasicInfo: schema.BasicInfo{Name: "mega/corp"},
		Metrics:   schema.RepositoryMetrics{Stars: 100_000, Forks: 20_000, Watchers: 5_000},
		Scores:    schema.RepositoryScores{HealthScore: 1, ActivityScore: 1, CommunityScore: 1, OverallScore: 1},
		Development: schema.DevelopmentActivity{
			TotalCommits: 10_000, Contributors: 500, CommitFrequency: 50,
		},
	}
}

func TestRankRepositories(t *testing.T) {
	fetcher := &contract.MockRepositoryFetcher{}
	fetcher.On("AnalyzeRepository", mock.Anything, "octo", "rocket").Return(rocketRepo(), nil)
	fetcher.On("AnalyzeRepository", mock.Anything, "mega", "corp").Return(hugeRepo(), nil)
	fetcher.On("AnalyzeRepository", mock.Anything, "tiny", "thing").Return(schema.NewRepoData(), nil)
	fetcher.On("AnalyzeRepository", mock.Anything, "octo", "gone").Return(schema.RepoData{}, schema.ErrRepositoryNotFound)
	svc := NewService(fetcher, nil, nil)

	names := []string{"tiny/thing", "octo/gone", "octo/rocket", "bad-name", "mega/corp"}
	got := svc.RankRepositories(context.Background(), names, 2, 0)

	require.Len(t, got, 5)
	order := make([]string, len(got))
	for i, row := range got {
		order[i] = row.Repository
		assert.Equal(t, i+1, row.Rank)
	}
	assert.Equal(t, []string{"mega/corp", "octo/rocket", "tiny/thing", "bad-name", "octo/gone"}, order)

	assert.Equal(t, 66.5, got[1].UnicornScore)
	assert.Equal(t, schema.RisingStarTier, got[1].Tier)
	assert.Equal(t, 250, got[1].Stars)
	assert.Equal(t, 3606235.74, got[1].Realistic)
	assert.Equal(t, "Repository not found", got[4].Error)
	assert.Contains(t, got[3].Error, "owner/repo")
	fetcher.AssertNumberOfCalls(t, "AnalyzeRepository", 4)
}

func TestRankRepositoriesLimit(t *testing.T) {
	rows := []schema.RankedRepository{
		{Repository: "b", UnicornScore: 50},
		{Repository: "a", UnicornScore: 50},
		{Repository: "c", UnicornScore: 90},
		{Repository: "d", Error: "boom"},
	}

	got := rankRepositories(rows, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Repository)
	assert.Equal(t, "a", got[1].Repository)
	assert.Equal(t, 2, got[1].Rank)

	assert.Empty(t, rankRepositories(nil, 5))
}
