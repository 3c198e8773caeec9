package algo

import (
	"testing"

	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		score    float64
		expected schema.Tier
	}{
		{100, schema.UnicornTier},
		{90, schema.UnicornTier},
		{89.999, schema.SoaringTier},
		{75, schema.SoaringTier},
		{74.9, schema.RisingStarTier},
		{60, schema.RisingStarTier},
		{45, schema.PromisingTier},
		{44.99, schema.EarlyStageTier},
		{30, schema.EarlyStageTier},
		{29.9, schema.SeedStageTier},
		{0, schema.SeedStageTier},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyTier(tt.score).Tier, "score=%v", tt.score)
	}
}

func TestSpeculativeRanges(t *testing.T) {
	r := SpeculativeRanges(66.5)
	assert.Equal(t, 2037875.39, r.Conservative)
	assert.Equal(t, 3606235.74, r.Realistic)
	assert.Equal(t, 6381615.04, r.Optimistic)
	assert.Equal(t, schema.MaxValuation, r.MaximumCap)
	assert.Equal(t, schema.Currency, r.Currency)

	top := SpeculativeRanges(100)
	assert.Equal(t, 5_000_000.0, top.Conservative)
	assert.Equal(t, 10_000_000.0, top.Realistic)
	assert.Equal(t, 20_000_000.0, top.Optimistic)

	zero := SpeculativeRanges(0)
	assert.Zero(t, zero.Conservative)
	assert.Zero(t, zero.Optimistic)
}

func TestSpeculativeRangesOrdered(t *testing.T) {
	for u := 0.0; u <= 100; u += 0.1 {
		r := SpeculativeRanges(u)
		require.LessOrEqual(t, r.Conservative, r.Realistic, "u=%v", u)
		require.LessOrEqual(t, r.Realistic, r.Optimistic, "u=%v", u)
		require.LessOrEqual(t, r.Optimistic, schema.MaxValuation, "u=%v", u)
		require.GreaterOrEqual(t, r.Conservative, 0.0, "u=%v", u)
	}
}

func TestHuntUnicornBaseline(t *testing.T) {
	result := HuntUnicorn(sampleRepoData(), nil)

	assert.Equal(t, schema.UnicornHunter, result.Method)
	assert.Equal(t, 66.5, result.UnicornScore)
	assert.Equal(t, schema.RisingStarTier, result.Tier)
	assert.Equal(t, schema.BaselineProfile, result.WeightProfile)
	assert.Equal(t, "⭐ Rising Star ($100M+ potential)", result.Status)
	assert.Equal(t, "Score of 66.5/100 indicates ⭐ rising star ($100m+ potential)", result.Interpretation.ScoreMeaning)
	assert.Equal(t, baseValuationNote, result.Interpretation.ValuationNote)
	assert.Equal(t, schema.AllComponentKeys, result.Interpretation.FactorsConsidered)
	assert.Nil(t, result.CodebaseAnalysis)
	assert.Nil(t, result.EcosystemAdoption)
}

func TestHuntUnicornReproducible(t *testing.T) {
	first := HuntUnicorn(sampleRepoData(), nil)
	for range 50 {
		again := HuntUnicorn(sampleRepoData(), nil)
		assert.Equal(t, first.UnicornScore, again.UnicornScore)
		assert.Equal(t, first.ValuationRanges, again.ValuationRanges)
	}
}

func TestHuntUnicornEnriched(t *testing.T) {
	codebase := sampleCodebase()
	result := HuntUnicorn(sampleRepoData(), codebase)

	assert.Equal(t, schema.EnrichedProfile, result.WeightProfile)
	assert.Equal(t, 68.8, result.UnicornScore)
	assert.Equal(t, schema.RisingStarTier, result.Tier)
	require.NotNil(t, result.CodebaseAnalysis)
	assert.NotSame(t, codebase, result.CodebaseAnalysis)
	assert.Equal(t,
		"These are speculative estimates based on GitHub metrics and codebase analysis. "+
			"Code quality score: 65.2/100. Test coverage: 40.0%. Security vulnerabilities: 3 critical.",
		result.Interpretation.ValuationNote)
}

func TestHuntUnicornFailedCodebaseIgnored(t *testing.T) {
	failed := &schema.CodebaseAnalysis{Status: schema.StatusFailed, Error: "boom"}
	withFailed := HuntUnicorn(sampleRepoData(), failed)
	baseline := HuntUnicorn(sampleRepoData(), nil)
	assert.Equal(t, baseline, withFailed)
}

func TestHuntUnicornClampsCodebaseCopy(t *testing.T) {
	codebase := sampleCodebase()
	codebase.QualityScores.MaintainabilityIndex = 250
	result := HuntUnicorn(sampleRepoData(), codebase)

	assert.Equal(t, 250.0, codebase.QualityScores.MaintainabilityIndex)
	assert.Equal(t, 100.0, result.CodebaseAnalysis.QualityScores.MaintainabilityIndex)
	assert.LessOrEqual(t, result.ComponentScores[schema.TechnologyQuality], 100.0)
	assert.LessOrEqual(t, result.ComponentScores[schema.CodeQuality], 100.0)
}

func TestHuntUnicornPathological(t *testing.T) {
	data := schema.RepoData{
		Metrics: schema.RepositoryMetrics{Stars: 1_000_000_000, Forks: 1_000_000_000, Watchers: 1_000_000_000},
		Scores:  schema.RepositoryScores{HealthScore: 50, ActivityScore: 50, OverallScore: 50},
		Development: schema.DevelopmentActivity{
			TotalCommits:    1_000_000_000,
			Contributors:    1_000_000_000,
			CommitFrequency: 1e12,
		},
	}
	result := HuntUnicorn(data, nil)
	assert.LessOrEqual(t, result.UnicornScore, 100.0)
	assert.GreaterOrEqual(t, result.UnicornScore, 0.0)
	assert.Equal(t, schema.UnicornTier, result.Tier)
	assert.LessOrEqual(t, result.ValuationRanges.Optimistic, schema.MaxValuation)
}
