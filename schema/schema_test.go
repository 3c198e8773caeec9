package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoDataDefaults(t *testing.T) {
	data, err := ParseRepoData([]byte(`{"basic_info":{"name":"a/b"},"metrics":{"stars":10},"scores":{"health_score":0.9}}`))
	require.NoError(t, err)
	assert.Equal(t, 10, data.Metrics.Stars)
	assert.Equal(t, 0.9, data.Scores.HealthScore)
	assert.Equal(t, DefaultScore, data.Scores.ActivityScore)
	assert.Equal(t, DefaultScore, data.Scores.CommunityScore)
	assert.Equal(t, DefaultScore, data.Scores.OverallScore)
	assert.Nil(t, data.Development.LastCommitDate)

	_, err = ParseRepoData([]byte(`{"metrics":`))
	assert.Error(t, err)
}

func TestParseRepoDataFloatCounts(t *testing.T) {
	data, err := ParseRepoData([]byte(`{
		"basic_info": {"name": "a/b"},
		"metrics": {"stars": 250.0, "forks": 1e2, "watchers": 7, "open_issues": 0.0},
		"development": {"total_commits": 42.0, "contributors": 3.0, "last_commit_date": 1714550400.0}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 250, data.Metrics.Stars)
	assert.Equal(t, 100, data.Metrics.Forks)
	assert.Equal(t, 42, data.Development.TotalCommits)
	assert.Equal(t, 3, data.Development.Contributors)
	require.NotNil(t, data.Development.LastCommitDate)
	assert.Equal(t, int64(1714550400), *data.Development.LastCommitDate)

	_, err = ParseRepoData([]byte(`{"metrics": {"stars": 2.5}}`))
	assert.Error(t, err)
}

func TestOwnerRepo(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		owner     string
		repo      string
		expectErr bool
	}{
		{"valid", "octo/hello", "octo", "hello", false},
		{"padded", "  octo/hello ", "octo", "hello", false},
		{"empty", "", "", "", true},
		{"no slash", "octohello", "", "", true},
		{"too many parts", "a/b/c", "", "", true},
		{"empty owner", "/b", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := NewRepoData()
			data.BasicInfo.Name = tt.input
			owner, repo, err := data.OwnerRepo()
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestOwnerRepoMissingField(t *testing.T) {
	_, _, err := NewRepoData().OwnerRepo()
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "missing repo_data.basic_info.name", err.Error())
}

func TestValuationInputsValidate(t *testing.T) {
	valid := NewValuationInputs(NewRepoData())
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ValuationInputs)
	}{
		{"zero team", func(in *ValuationInputs) { in.TeamSize = 0 }},
		{"negative rate", func(in *ValuationInputs) { in.HourlyRate = -1 }},
		{"zero months", func(in *ValuationInputs) { in.DevelopmentMonths = 0 }},
		{"zero multiplier", func(in *ValuationInputs) { in.MarketMultiplier = 0 }},
		{"negative stars", func(in *ValuationInputs) { in.RepoData.Metrics.Stars = -5 }},
		{"negative frequency", func(in *ValuationInputs) { in.RepoData.Development.CommitFrequency = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewValuationInputs(NewRepoData())
			tt.mutate(&in)
			assert.Error(t, in.Validate())
		})
	}
}

func TestComparableDefaultStars(t *testing.T) {
	var comps []Comparable
	require.NoError(t, json.Unmarshal([]byte(`[{"value":100},{"value":50,"stars":0},{"value":10,"stars":7}]`), &comps))
	require.Len(t, comps, 3)
	assert.Equal(t, 1, comps[0].Stars)
	assert.Equal(t, 0, comps[1].Stars)
	assert.Equal(t, 7, comps[2].Stars)
}

func TestWeightTablesSumToOne(t *testing.T) {
	for _, profile := range AllWeightProfiles {
		var sum float64
		seen := map[ComponentKey]bool{}
		for _, w := range GetDefaultWeights(profile) {
			assert.False(t, seen[w.Key], "duplicate key %s in %s", w.Key, profile)
			seen[w.Key] = true
			sum += w.Weight
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "profile %s", profile)
	}

	baseline := GetDefaultWeights(BaselineProfile)
	assert.Len(t, baseline, 5)
	for _, w := range baseline {
		assert.NotEqual(t, CodeQuality, w.Key)
		assert.NotEqual(t, SecurityPosture, w.Key)
	}
	assert.Len(t, GetDefaultWeights(EnrichedProfile), len(AllComponentKeys))

	var scorecard float64
	for _, f := range ScorecardFactors {
		scorecard += f.Weight
	}
	assert.InDelta(t, 1.0, scorecard, 1e-9)
}

func TestTierBandsDescending(t *testing.T) {
	require.Len(t, TierBands, 6)
	for i := 1; i < len(TierBands); i++ {
		assert.Greater(t, TierBands[i-1].MinScore, TierBands[i].MinScore)
	}
	assert.Equal(t, 0.0, TierBands[len(TierBands)-1].MinScore)
}

func TestCodebaseClamp(t *testing.T) {
	c := &CodebaseAnalysis{
		Status:        StatusSuccess,
		QualityScores: &QualityScores{MaintainabilityIndex: 140, TechnicalDebtRatio: -0.2, DocumentationCoverage: 120},
		TestCoverage:  &TestCoverage{OverallCoverage: -3, TestQualityScore: 12},
		Dependencies:  &DependencyHealth{SecurityVulnerabilities: -1, OutdatedPercentage: 300},
		Architecture:  &ArchitectureScores{ModularityScore: 11, CouplingScore: -2, CohesionScore: 5},
		Documentation: &DocumentationScores{ReadmeQualityScore: 15},
	}
	c.Clamp()
	assert.Equal(t, 100.0, c.QualityScores.MaintainabilityIndex)
	assert.Equal(t, 0.0, c.QualityScores.TechnicalDebtRatio)
	assert.Equal(t, 100.0, c.QualityScores.DocumentationCoverage)
	assert.Equal(t, 0.0, c.TestCoverage.OverallCoverage)
	assert.Equal(t, 10.0, c.TestCoverage.TestQualityScore)
	assert.Equal(t, 0, c.Dependencies.SecurityVulnerabilities)
	assert.Equal(t, 100.0, c.Dependencies.OutdatedPercentage)
	assert.Equal(t, 10.0, c.Architecture.ModularityScore)
	assert.Equal(t, 0.0, c.Architecture.CouplingScore)
	assert.Equal(t, 10.0, c.Documentation.ReadmeQualityScore)

	var nilAnalysis *CodebaseAnalysis
	assert.NotPanics(t, func() { nilAnalysis.Clamp() })
	assert.False(t, nilAnalysis.Succeeded())
}

func TestCodebaseAccessorDefaults(t *testing.T) {
	c := &CodebaseAnalysis{Status: StatusSuccess}
	assert.Equal(t, DefaultMaintainability, c.Maintainability())
	m, cp, ch := c.ArchitectureTriple()
	assert.Equal(t, DefaultArchitectureScore, m)
	assert.Equal(t, DefaultArchitectureScore, cp)
	assert.Equal(t, DefaultArchitectureScore, ch)
	total, critical, outdated := c.Vulnerabilities()
	assert.Zero(t, total)
	assert.Zero(t, critical)
	assert.Zero(t, outdated)
	assert.Zero(t, c.Coverage())
	assert.Zero(t, c.ReadmeQuality())
}

func TestParseCodebaseOptions(t *testing.T) {
	tests := []struct {
		name      string
		depth     string
		include   []string
		expected  CodebaseOptions
		expectErr bool
	}{
		{"defaults", "", nil, DefaultCodebaseOptions(), false},
		{"deep tests", "Deep", []string{"tests", "quality"}, CodebaseOptions{Depth: DeepDepth, Include: []MetricCategory{TestMetrics, QualityMetrics}}, false},
		{"blank names skipped", "quick", []string{" ", "all"}, CodebaseOptions{Depth: QuickDepth, Include: []MetricCategory{AllMetrics}}, false},
		{"bad depth", "exhaustive", nil, CodebaseOptions{}, true},
		{"bad metric", "standard", []string{"perf"}, CodebaseOptions{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := ParseCodebaseOptions(tt.depth, tt.include)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts)
		})
	}
}

func TestCodebaseOptionsWants(t *testing.T) {
	all := DefaultCodebaseOptions()
	assert.True(t, all.Wants(ComplexityMetrics))
	assert.True(t, all.Wants(TechnologyMetrics))

	some := CodebaseOptions{Depth: QuickDepth, Include: []MetricCategory{TestMetrics}}
	assert.True(t, some.Wants(TestMetrics))
	assert.False(t, some.Wants(ArchitectureMetrics))
	assert.Equal(t, 1, some.ManifestReadLimit())
	assert.Equal(t, 3, all.ManifestReadLimit())
	assert.Equal(t, 0, CodebaseOptions{Depth: DeepDepth}.ManifestReadLimit())
}

func TestValuationResultMarshal(t *testing.T) {
	res := ValuationResult{
		Method: CostBased,
		Simple: &MethodValuation{Method: CostBased, Valuation: 96000, Currency: Currency},
	}
	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"cost_based","valuation":96000,"currency":"USD"}`, string(b))

	_, err = json.Marshal(ValuationResult{Method: Scorecard})
	assert.Error(t, err)
}

func TestPackageStatsSucceeded(t *testing.T) {
	stats := NewPackageStats("octo", "hello")
	assert.Equal(t, "octo/hello", stats.Repository)
	assert.False(t, stats.Succeeded())
	stats.Status = StatusSuccess
	assert.True(t, stats.Succeeded())

	b, err := json.Marshal(NewPackageStats("a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"repository":"a/b","package_manager":"","package_name":"","stats":{},"status":"not_found"}`, string(b))
}

func TestNewFailureRecord(t *testing.T) {
	rec := NewFailureRecord(ErrRepositoryNotFound)
	assert.Equal(t, "Repository not found", rec.Error)
	assert.Equal(t, StatusFailed, rec.Status)
}
