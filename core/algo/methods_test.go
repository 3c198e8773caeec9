package algo

import (
	"testing"

	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
)

func TestCostBased(t *testing.T) {
	in := schema.NewValuationInputs(sampleRepoData())
	in.TeamSize = 2
	assert.Equal(t, 192000.0, CostBased(in))

	in.TeamSize = 1
	in.DevelopmentMonths = 12
	in.HourlyRate = 150
	assert.Equal(t, 288000.0, CostBased(in))
}

func TestMarketBased(t *testing.T) {
	in := schema.NewValuationInputs(sampleRepoData())

	tests := []struct {
		name        string
		comparables []schema.Comparable
		expected    float64
	}{
		{"no comparables", nil, 250 * 1000 * 10},
		{"ratio from comparables", []schema.Comparable{{Value: 1_000_000, Stars: 500}, {Value: 500_000, Stars: 500}}, 250 * 1500 * 10},
		{"zero stars guard", []schema.Comparable{{Value: 1_000_000, Stars: 0}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MarketBased(in, tt.comparables), 1e-6)
		})
	}
}

func TestIncomeBased(t *testing.T) {
	in := schema.NewValuationInputs(sampleRepoData())

	estimated := IncomeBased(in, 0)
	assert.Equal(t, schema.IncomeBased, estimated.Method)
	assert.Equal(t, 25000.0, estimated.EstimatedAnnualRevenue)
	assert.Equal(t, 65217.39, estimated.Valuation)
	assert.Equal(t, 3.0, estimated.RevenueMultiple)
	assert.Equal(t, 0.15, estimated.DiscountRate)

	explicit := IncomeBased(in, 115_000)
	assert.Equal(t, 115000.0, explicit.EstimatedAnnualRevenue)
	assert.InDelta(t, 300000.0, explicit.Valuation, 0.01)
}

func TestScorecardValuation(t *testing.T) {
	result := ScorecardValuation(sampleRepoData())

	assert.Equal(t, schema.Scorecard, result.Method)
	assert.Equal(t, 0.63, result.TotalScore)
	assert.Equal(t, map[string]float64{
		schema.FactorTechnologyQuality:   0.2,
		schema.FactorMarketOpportunity:   0.06,
		schema.FactorDevelopmentTeam:     0.045,
		schema.FactorCompetitivePosition: 0.12,
		schema.FactorDeploymentReadiness: 0.12,
		schema.FactorDocumentation:       0.085,
	}, result.FactorScores)
	assert.Equal(t, schema.ScorecardRange{Low: 6300, Medium: 31500, High: 157500}, result.ValuationRange)
}

func TestScorecardFloorsAndOrder(t *testing.T) {
	empty := schema.RepoData{}
	result := ScorecardValuation(empty)
	assert.InDelta(t, 0.12, result.TotalScore, 1e-9)
	assert.Equal(t, 5000.0, result.ValuationRange.Low)
	assert.Equal(t, 25000.0, result.ValuationRange.Medium)
	assert.Equal(t, 100000.0, result.ValuationRange.High)

	huge := schema.RepoData{
		Metrics:     schema.RepositoryMetrics{Stars: 1_000_000},
		Scores:      schema.RepositoryScores{HealthScore: 9, ActivityScore: 9, OverallScore: 9},
		Development: schema.DevelopmentActivity{Contributors: 1000},
	}
	r := ScorecardValuation(huge).ValuationRange
	assert.LessOrEqual(t, r.Low, r.Medium)
	assert.LessOrEqual(t, r.Medium, r.High)
	assert.LessOrEqual(t, ScorecardValuation(huge).TotalScore, 1.0)
}
