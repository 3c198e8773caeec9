//go:build integration

package integration

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnalyzeVerification checks the snapshot the CLI builds from the GitHub API.
func TestAnalyzeVerification(t *testing.T) {
	fake := newFakeGitHub(t)

	out, err := runRepovalue(t, nil, "analyze", "octo/hello", "--github-api-url", fake.URL, "--output", "json")
	require.NoError(t, err)

	var data schema.RepoData
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, "octo/hello", data.BasicInfo.Name)
	assert.Equal(t, 1200, data.Metrics.Stars)
	assert.Equal(t, 150, data.Metrics.Forks)
	assert.Equal(t, 160, data.Development.TotalCommits)
	assert.Equal(t, 12, data.Development.Contributors)
	for _, score := range []float64{data.Scores.HealthScore, data.Scores.ActivityScore, data.Scores.CommunityScore, data.Scores.OverallScore} {
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

// TestValueVerification checks the cost model against hand-computed figures.
func TestValueVerification(t *testing.T) {
	fake := newFakeGitHub(t)

	out, err := runRepovalue(t, nil, "value", "octo/hello", "--github-api-url", fake.URL,
		"--method", "cost_based", "--team-size", "2", "--development-months", "3", "--output", "json")
	require.NoError(t, err)

	var result schema.MethodValuation
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, schema.CostBased, result.Method)
	assert.InDelta(t, 2*100.0*160*3, result.Valuation, 0.001)
	assert.Equal(t, "USD", result.Currency)
}

// TestUnicornVerification checks score bounds and the valuation cap.
func TestUnicornVerification(t *testing.T) {
	fake := newFakeGitHub(t)

	out, err := runRepovalue(t, nil, "unicorn", "octo/hello", "--github-api-url", fake.URL, "--with-codebase", "--output", "json")
	require.NoError(t, err)

	var result schema.UnicornResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.GreaterOrEqual(t, result.UnicornScore, 0.0)
	assert.LessOrEqual(t, result.UnicornScore, 100.0)
	assert.NotEmpty(t, result.Tier)
	assert.Len(t, result.ComponentScores, 7)
	require.NotNil(t, result.CodebaseAnalysis)
	assert.Equal(t, schema.EnrichedProfile, result.WeightProfile)

	r := result.ValuationRanges
	assert.LessOrEqual(t, r.Conservative, r.Realistic)
	assert.LessOrEqual(t, r.Realistic, r.Optimistic)
	assert.LessOrEqual(t, r.Optimistic, schema.MaxValuation)
}

// TestRankVerification checks that failed repositories sink to the bottom.
func TestRankVerification(t *testing.T) {
	fake := newFakeGitHub(t)

	out, err := runRepovalue(t, nil, "rank", "octo/missing", "octo/hello", "--github-api-url", fake.URL, "--output", "csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, []string{"1", "octo/hello"}, records[1][:2])
	assert.Equal(t, []string{"2", "octo/missing"}, records[2][:2])
	assert.NotEmpty(t, records[2][len(records[2])-1])
}

// TestMetricsVerification checks the weights report needs no network.
func TestMetricsVerification(t *testing.T) {
	out, err := runRepovalue(t, nil, "metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "BASELINE")
	assert.Contains(t, out, "Speculative valuations are capped at $1,000,000,000")
}
