package schema

import (
	"encoding/json"
	"fmt"
)

// MaxValuation caps every speculative unicorn valuation figure.
const MaxValuation = 1_000_000_000.0

// ValuationRanges holds the three speculative dollar figures of a unicorn result.
type ValuationRanges struct {
	Conservative float64 `json:"conservative"`
	Realistic    float64 `json:"realistic"`
	Optimistic   float64 `json:"optimistic"`
	MaximumCap   float64 `json:"maximum_cap"`
	Currency     string  `json:"currency"`
}

// Interpretation explains a unicorn result in prose.
type Interpretation struct {
	ScoreMeaning      string         `json:"score_meaning"`
	ValuationNote     string         `json:"valuation_note"`
	FactorsConsidered []ComponentKey `json:"factors_considered"`
}

// EcosystemAdoption summarizes a registry hit attached to a unicorn result.
type EcosystemAdoption struct {
	PackageManager PackageManager `json:"package_manager"`
	AdoptionScore  float64        `json:"adoption_score"`
	PackageName    string         `json:"package_name"`
}

// UnicornResult is the primary output of the unicorn hunter.
type UnicornResult struct {
	Method            ValuationMethod          `json:"method"`
	UnicornScore      float64                  `json:"unicorn_score"`
	Status            string                   `json:"status"`
	Tier              Tier                     `json:"tier"`
	WeightProfile     WeightProfile            `json:"weight_profile"`
	ComponentScores   map[ComponentKey]float64 `json:"component_scores"`
	ValuationRanges   ValuationRanges          `json:"speculative_valuation_ranges"`
	Interpretation    Interpretation           `json:"interpretation"`
	CodebaseAnalysis  *CodebaseAnalysis        `json:"codebase_analysis,omitempty"`
	EcosystemAdoption *EcosystemAdoption       `json:"ecosystem_adoption,omitempty"`
}

// MethodValuation is the single-figure result of the cost and market methods.
type MethodValuation struct {
	Method    ValuationMethod `json:"method"`
	Valuation float64         `json:"valuation"`
	Currency  string          `json:"currency"`
}

// ScorecardRange holds the low/medium/high scorecard valuations.
type ScorecardRange struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// ScorecardResult is the output of the scorecard method.
type ScorecardResult struct {
	Method         ValuationMethod    `json:"method"`
	TotalScore     float64            `json:"total_score"`
	FactorScores   map[string]float64 `json:"factor_scores"`
	ValuationRange ScorecardRange     `json:"valuation_range"`
}

// IncomeResult is the output of the income method.
type IncomeResult struct {
	Method                 ValuationMethod `json:"method"`
	EstimatedAnnualRevenue float64         `json:"estimated_annual_revenue"`
	RevenueMultiple        float64         `json:"revenue_multiple"`
	DiscountRate           float64         `json:"discount_rate"`
	Valuation              float64         `json:"valuation"`
}

// ValuationResult holds exactly one method-specific result.
type ValuationResult struct {
	Method    ValuationMethod
	Simple    *MethodValuation
	Scorecard *ScorecardResult
	Income    *IncomeResult
	Unicorn   *UnicornResult
}

// Payload returns the populated method-specific result.
func (v ValuationResult) Payload() any {
	switch {
	case v.Simple != nil:
		return v.Simple
	case v.Scorecard != nil:
		return v.Scorecard
	case v.Income != nil:
		return v.Income
	case v.Unicorn != nil:
		return v.Unicorn
	}
	return nil
}

// MarshalJSON renders the method-specific result directly.
func (v ValuationResult) MarshalJSON() ([]byte, error) {
	p := v.Payload()
	if p == nil {
		return nil, fmt.Errorf("empty valuation result for method %q", v.Method)
	}
	return json.Marshal(p)
}

// MarketMetrics is the subset of repository figures used for a market comparison.
type MarketMetrics struct {
	RepositoryMetrics
	Contributors int `json:"contributors,omitempty"`
}

// MarketBenchmarks are the fixed reference figures of an average project.
type MarketBenchmarks struct {
	AverageStars        int     `json:"average_stars"`
	AverageForks        int     `json:"average_forks"`
	AverageContributors int     `json:"average_contributors"`
	MedianValuation     float64 `json:"median_valuation"`
}

// MarketPercentiles places a repository against the benchmarks.
type MarketPercentiles struct {
	StarsPercentile    int `json:"stars_percentile"`
	ForksPercentile    int `json:"forks_percentile"`
	ActivityPercentile int `json:"activity_percentile"`
}

// MarketComparison is the output of a market comparison.
type MarketComparison struct {
	Category    string            `json:"category"`
	RepoMetrics MarketMetrics     `json:"repo_metrics"`
	Benchmarks  MarketBenchmarks  `json:"market_benchmarks"`
	Comparison  MarketPercentiles `json:"comparison"`
}

// AgentResult is what the agent returns after routing a query.
type AgentResult struct {
	Repository             string            `json:"repository"`
	Analysis               RepoData          `json:"analysis"`
	PackageStats           *PackageStats     `json:"package_stats,omitempty"`
	EcosystemAdoptionScore *float64          `json:"ecosystem_adoption_score,omitempty"`
	CodebaseAnalysis       *CodebaseAnalysis `json:"codebase_analysis,omitempty"`
	UnicornHunter          *UnicornResult    `json:"unicorn_hunter,omitempty"`
	Valuation              *ValuationResult  `json:"valuation,omitempty"`
	Summary                string            `json:"summary,omitempty"`
	Suggestion             string            `json:"suggestion,omitempty"`
}

// AgentHint is returned when no repository could be found in a query.
type AgentHint struct {
	Error          string   `json:"error"`
	Hint           string   `json:"hint"`
	ExampleQueries []string `json:"example_queries"`
}

// RankedRepository is one row of a unicorn leaderboard.
type RankedRepository struct {
	Rank         int     `json:"rank"`
	Repository   string  `json:"repository"`
	UnicornScore float64 `json:"unicorn_score"`
	Tier         Tier    `json:"tier"`
	Stars        int     `json:"stars"`
	Realistic    float64 `json:"realistic_valuation"`
	Error        string  `json:"error,omitempty"`
}
