package algo

import "github.com/huangsam/repovalue/schema"

// Constants of the alternate methods.
const (
	HoursPerMonth       = 160.0
	DollarsPerStar      = 1000.0
	RevenuePerStar      = 100.0
	RevenueMultiple     = 3.0
	DiscountRate        = 0.15
	DeploymentReadiness = 0.8
)

// CostBased is the replacement cost of the development effort. It is never clamped.
func CostBased(in schema.ValuationInputs) float64 {
	return float64(in.TeamSize) * HoursPerMonth * float64(in.DevelopmentMonths) * in.HourlyRate
}

// MarketBased values stars at the comparables' dollars-per-star ratio, or a flat rate without comparables.
func MarketBased(in schema.ValuationInputs, comparables []schema.Comparable) float64 {
	stars := float64(in.RepoData.Metrics.Stars)
	if len(comparables) == 0 {
		return stars * DollarsPerStar * in.MarketMultiplier
	}
	var totalValue, totalStars float64
	for _, c := range comparables {
		totalValue += c.Value
		totalStars += float64(c.Stars)
	}
	if totalStars == 0 {
		return 0
	}
	return stars * (totalValue / totalStars) * in.MarketMultiplier
}

// IncomeBased discounts a revenue multiple. Without revenue, each star is worth RevenuePerStar a year.
func IncomeBased(in schema.ValuationInputs, annualRevenue float64) schema.IncomeResult {
	revenue := annualRevenue
	if revenue <= 0 {
		revenue = float64(in.RepoData.Metrics.Stars) * RevenuePerStar
	}
	return schema.IncomeResult{
		Method:                 schema.IncomeBased,
		EstimatedAnnualRevenue: Round(revenue, 2),
		RevenueMultiple:        RevenueMultiple,
		DiscountRate:           DiscountRate,
		Valuation:              Round(revenue*RevenueMultiple/(1+DiscountRate), 2),
	}
}

// ScorecardFactorValues normalizes each scorecard factor to [0,1].
func ScorecardFactorValues(data schema.RepoData) map[string]float64 {
	m, s, d := data.Metrics, data.Scores, data.Development
	return map[string]float64{
		schema.FactorTechnologyQuality:   Clamp(s.OverallScore, 0, 1),
		schema.FactorMarketOpportunity:   Clamp(float64(m.Stars+m.Forks)/1000, 0, 1),
		schema.FactorDevelopmentTeam:     Clamp(float64(d.Contributors)/50, 0, 1),
		schema.FactorCompetitivePosition: Clamp(s.ActivityScore, 0, 1),
		schema.FactorDeploymentReadiness: DeploymentReadiness,
		schema.FactorDocumentation:       Clamp(s.HealthScore, 0, 1),
	}
}

// ScorecardValuation weights the scorecard factors and floors each valuation band.
func ScorecardValuation(data schema.RepoData) schema.ScorecardResult {
	values := ScorecardFactorValues(data)
	factorScores := make(map[string]float64, len(schema.ScorecardFactors))
	var total float64
	for _, f := range schema.ScorecardFactors {
		weighted := values[f.Name] * f.Weight
		factorScores[f.Name] = Round(weighted, 3)
		total += weighted
	}
	return schema.ScorecardResult{
		Method:       schema.Scorecard,
		TotalScore:   Round(total, 3),
		FactorScores: factorScores,
		ValuationRange: schema.ScorecardRange{
			Low:    Round(max(10_000*total, 5_000), 2),
			Medium: Round(max(50_000*total, 25_000), 2),
			High:   Round(max(250_000*total, 100_000), 2),
		},
	}
}
