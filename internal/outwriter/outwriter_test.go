package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/internal/parquet"
	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func plainConfig() *contract.Config {
	cfg := contract.NewDefaultConfig()
	cfg.UseColors = false
	cfg.Width = 120
	return cfg
}

func sampleRepo() schema.RepoData {
	last := int64(1_700_000_000)
	return schema.RepoData{
		BasicInfo: schema.BasicInfo{Name: "octo/rocket", Description: "Fast things", PrimaryLanguage: "Go"},
		Metrics:   schema.RepositoryMetrics{Stars: 2500, Forks: 50, Watchers: 30, OpenIssues: 4},
		Scores:    schema.RepositoryScores{HealthScore: 0.85, ActivityScore: 0.8, CommunityScore: 0.75, OverallScore: 0.8},
		Development: schema.DevelopmentActivity{
			TotalCommits: 500, Contributors: 15, CommitFrequency: 8.5, LastCommitDate: &last,
		},
	}
}

func sampleUnicorn() schema.UnicornResult {
	return schema.UnicornResult{
		Method:        schema.UnicornHunter,
		UnicornScore:  66.5,
		Status:        "⭐ Rising Star ($100M+ potential)",
		Tier:          schema.RisingStarTier,
		WeightProfile: schema.BaselineProfile,
		ComponentScores: map[schema.ComponentKey]float64{
			schema.CommunityMomentum: 70,
			schema.NetworkEffects:    40,
		},
		ValuationRanges: schema.ValuationRanges{
			Conservative: 33_250_000, Realistic: 66_500_000, Optimistic: 133_000_000,
			MaximumCap: schema.MaxValuation, Currency: "USD",
		},
		Interpretation: schema.Interpretation{ScoreMeaning: "Rising star", ValuationNote: "Speculative only"},
	}
}

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{96000, "$96,000"},
		{2_500_000, "$2,500,000"},
		{1234.5, "$1,234.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDollars(tt.in))
	}
}

func TestHumanizeKey(t *testing.T) {
	assert.Equal(t, "Community momentum", humanizeKey("community_momentum"))
	assert.Equal(t, "Documentation", humanizeKey("documentation"))
	assert.Equal(t, "", humanizeKey(""))
}

func TestGetMaxValueWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{80, 48},
		{40, 20},
		{300, 100},
	}
	for _, tt := range tests {
		cfg := plainConfig()
		cfg.Width = tt.width
		assert.Equal(t, tt.want, getMaxValueWidth(cfg))
	}
}

func TestWriteYAMLUsesJSONNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, sampleUnicorn()))

	out := buf.String()
	assert.Contains(t, out, "unicorn_score: 66.5")
	assert.Contains(t, out, "speculative_valuation_ranges:\n")
	assert.NotContains(t, out, "{", "block style only")

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "rising_star", back["tier"])
}

func TestRepositorySections(t *testing.T) {
	sections := repositorySections(sampleRepo(), 1)
	require.Len(t, sections, 4)
	assert.Equal(t, "Metrics", sections[1].Title)
	assert.Equal(t, "2,500", sections[1].Fields[0].Value)
	require.NotNil(t, sections[1].Fields[0].Numeric)
	assert.Equal(t, 2500.0, *sections[1].Fields[0].Numeric)
	assert.Equal(t, "0.85", sections[2].Fields[0].Value)

	dev := sections[3]
	assert.Equal(t, "8.5", dev.Fields[2].Value)
	assert.Equal(t, "Last commit week", dev.Fields[3].Label)
}

func TestValuationSections(t *testing.T) {
	t.Run("scorecard", func(t *testing.T) {
		result := schema.ValuationResult{
			Method: schema.Scorecard,
			Scorecard: &schema.ScorecardResult{
				Method:     schema.Scorecard,
				TotalScore: 0.63,
				FactorScores: map[string]float64{
					schema.FactorTechnologyQuality: 0.8,
					schema.FactorDocumentation:     0.5,
				},
				ValuationRange: schema.ScorecardRange{Low: 63000, Medium: 315000, High: 630000},
			},
		}
		sections := valuationSections(result, 1)
		require.Len(t, sections, 2)
		labels := []string{}
		for _, f := range sections[0].Fields {
			labels = append(labels, f.Label)
		}
		assert.Equal(t, []string{"Technology quality", "Documentation", "Total score"}, labels)
		assert.Equal(t, "$315,000", sections[1].Fields[1].Value)
	})

	t.Run("income", func(t *testing.T) {
		result := schema.ValuationResult{
			Method: schema.IncomeBased,
			Income: &schema.IncomeResult{
				Method: schema.IncomeBased, EstimatedAnnualRevenue: 10000,
				RevenueMultiple: 3, DiscountRate: 0.15, Valuation: 26086.96,
			},
		}
		sections := valuationSections(result, 1)
		require.Len(t, sections, 1)
		assert.Equal(t, "3.0x", sections[0].Fields[1].Value)
		assert.Equal(t, "15%", sections[0].Fields[2].Value)
		assert.Equal(t, "$26,086.96", sections[0].Fields[3].Value)
	})

	t.Run("cost", func(t *testing.T) {
		result := schema.ValuationResult{
			Method: schema.CostBased,
			Simple: &schema.MethodValuation{Method: schema.CostBased, Valuation: 96000, Currency: "USD"},
		}
		sections := valuationSections(result, 1)
		require.Len(t, sections, 1)
		assert.Equal(t, "$96,000", sections[0].Fields[1].Value)
	})
}

func TestUnicornSectionsOrderComponents(t *testing.T) {
	result := sampleUnicorn()
	eco := schema.EcosystemAdoption{PackageManager: schema.NPM, AdoptionScore: 36.1, PackageName: "rocket"}
	result.EcosystemAdoption = &eco

	sections := unicornSections(result, 1)
	titles := []string{}
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Unicorn score", "Components", "Speculative valuation", "Ecosystem adoption", "Interpretation"}, titles)

	comps := sections[1].Fields
	require.Len(t, comps, 2)
	assert.Equal(t, "Community momentum", comps[0].Label)
	assert.Equal(t, "Network effects", comps[1].Label)
	assert.Equal(t, "Rising Star", sections[0].Fields[1].Value)
}

func TestCodebaseSections(t *testing.T) {
	t.Run("failed analysis shows only the header", func(t *testing.T) {
		sections := codebaseSections(&schema.CodebaseAnalysis{Status: schema.StatusFailed, Error: "Repository not found"}, 1)
		require.Len(t, sections, 1)
		assert.Equal(t, "Repository not found", sections[0].Fields[1].Value)
	})

	t.Run("languages are sorted", func(t *testing.T) {
		c := &schema.CodebaseAnalysis{
			Status: schema.StatusSuccess,
			TechnologyStack: &schema.TechnologyStack{
				PrimaryLanguages: map[string]float64{"Python": 20, "Go": 80},
				Frameworks:       []string{"None detected"},
				BuildSystem:      "Go Modules",
			},
		}
		sections := codebaseSections(c, 1)
		require.Len(t, sections, 2)
		tech := sections[1].Fields
		assert.Equal(t, "Go", tech[0].Label)
		assert.Equal(t, "80.0%", tech[0].Value)
		assert.Equal(t, "Python", tech[1].Label)
	})
}

func TestWriteReportCSV(t *testing.T) {
	rep := &report{Sections: []section{
		{Title: "Score", Fields: []field{textField("Tier", "Rising Star"), numField("Score", 66.5, "66.5")}},
	}}
	var buf bytes.Buffer
	require.NoError(t, writeReportCSV(&buf, rep))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Section", "Field", "Value"},
		{"Score", "Tier", "Rising Star"},
		{"Score", "Score", "66.5"},
	}, records)
}

func TestWriteReportText(t *testing.T) {
	cfg := plainConfig()
	rep := &report{
		Emoji:    "🦄",
		Title:    "Unicorn hunter",
		Subject:  "octo/rocket",
		Sections: unicornSections(sampleUnicorn(), 1),
		Footer:   []string{"Speculative only"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeReportText(&buf, rep, cfg))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Unicorn hunter: octo/rocket\n"), "emoji off by default")
	assert.Contains(t, out, "66.5")
	assert.Contains(t, out, "$66,500,000")
	assert.Contains(t, out, "Rising Star")
	assert.True(t, strings.HasSuffix(out, "Speculative only\n"))

	cfg.UseEmojis = true
	buf.Reset()
	require.NoError(t, writeReportText(&buf, rep, cfg))
	assert.True(t, strings.HasPrefix(buf.String(), "🦄 Unicorn hunter"))
}

func TestReportRows(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rep := &report{
		Kind:     "repository",
		Subject:  "octo/rocket",
		Sections: repositorySections(sampleRepo(), 1),
	}
	rows := reportRows(rep, now)
	require.NotEmpty(t, rows)
	assert.Equal(t, "repository", rows[0].Report)
	assert.Equal(t, "octo/rocket", rows[0].Subject)
	assert.Equal(t, "Repository", rows[0].Section)
	assert.Nil(t, rows[0].Numeric)
	assert.Equal(t, now, rows[0].GeneratedAt)
}

func TestWriteToFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("json payload", func(t *testing.T) {
		cfg := plainConfig()
		cfg.Output = schema.JSONOut
		cfg.OutputFile = filepath.Join(dir, "unicorn.json")
		require.NoError(t, NewOutWriter().WriteUnicorn("octo/rocket", sampleUnicorn(), cfg))

		raw, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var got schema.UnicornResult
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, 66.5, got.UnicornScore)
		assert.Equal(t, schema.RisingStarTier, got.Tier)
	})

	t.Run("valuation json is the method payload", func(t *testing.T) {
		cfg := plainConfig()
		cfg.Output = schema.JSONOut
		cfg.OutputFile = filepath.Join(dir, "valuation.json")
		result := schema.ValuationResult{
			Method: schema.CostBased,
			Simple: &schema.MethodValuation{Method: schema.CostBased, Valuation: 96000, Currency: "USD"},
		}
		require.NoError(t, NewOutWriter().WriteValuation("octo/rocket", result, cfg))

		raw, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.JSONEq(t, `{"method":"cost_based","valuation":96000,"currency":"USD"}`, string(raw))
	})

	t.Run("parquet rows", func(t *testing.T) {
		cfg := plainConfig()
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(dir, "repo.parquet")
		require.NoError(t, NewOutWriter().WriteRepository(sampleRepo(), cfg))

		rows, err := parquet.ReadRows[parquet.FieldRow](cfg.OutputFile)
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		assert.Equal(t, "octo/rocket", rows[0].Subject)
	})

	t.Run("packages json carries the adoption score", func(t *testing.T) {
		cfg := plainConfig()
		cfg.Output = schema.JSONOut
		cfg.OutputFile = filepath.Join(dir, "packages.json")
		stats := schema.PackageStats{
			Repository: "octo/rocket", PackageManager: schema.NPM, PackageName: "rocket",
			Stats:  schema.RegistryStats{WeeklyDownloads: 5000},
			Status: schema.StatusSuccess,
		}
		require.NoError(t, NewOutWriter().WritePackages(stats, 36.1, cfg))

		raw, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "npm", got["package_manager"])
		assert.Equal(t, 36.1, got["ecosystem_adoption_score"])
	})
}
