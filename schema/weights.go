package schema

// ComponentWeight pairs a component with its contribution to the unicorn score.
type ComponentWeight struct {
	Key    ComponentKey `json:"key"`
	Weight float64      `json:"weight"`
}

// GetDefaultWeights returns the ordered weight table for a profile.
// The order is fixed so that weighted sums are reproducible bit for bit.
func GetDefaultWeights(profile WeightProfile) []ComponentWeight {
	switch profile {
	case EnrichedProfile:
		return []ComponentWeight{
			{CommunityMomentum, 0.25},
			{DevelopmentVelocity, 0.15},
			{TechnologyQuality, 0.20},
			{MarketPotential, 0.15},
			{NetworkEffects, 0.10},
			{CodeQuality, 0.10},
			{SecurityPosture, 0.05},
		}
	default: // BaselineProfile
		return []ComponentWeight{
			{CommunityMomentum, 0.25},
			{DevelopmentVelocity, 0.20},
			{TechnologyQuality, 0.20},
			{MarketPotential, 0.20},
			{NetworkEffects, 0.15},
		}
	}
}

// AllWeightProfiles returns both profiles in display order.
var AllWeightProfiles = []WeightProfile{BaselineProfile, EnrichedProfile}

// TierBand is one row of the tier table.
type TierBand struct {
	Tier     Tier
	MinScore float64 // inclusive lower bound
	Status   string
	Range    string
}

// TierBands lists tiers by descending threshold.
var TierBands = []TierBand{
	{UnicornTier, 90, "🦄 UNICORN ALERT! ($1B+ potential)", "$1B+"},
	{SoaringTier, 75, "🚀 Soaring! ($500M+ potential)", "$500M+"},
	{RisingStarTier, 60, "⭐ Rising Star ($100M+ potential)", "$100M+"},
	{PromisingTier, 45, "📈 Promising ($10M+ potential)", "$10M+"},
	{EarlyStageTier, 30, "🌱 Early Stage ($1M+ potential)", "$1M+"},
	{SeedStageTier, 0, "💡 Seed Stage ($100K+ potential)", "$100K+"},
}

// Scorecard factor names.
const (
	FactorTechnologyQuality   = "technology_quality"
	FactorMarketOpportunity   = "market_opportunity"
	FactorDevelopmentTeam     = "development_team"
	FactorCompetitivePosition = "competitive_position"
	FactorDeploymentReadiness = "deployment_readiness"
	FactorDocumentation       = "documentation"
)

// ScorecardFactor pairs a scorecard factor with its weight.
type ScorecardFactor struct {
	Name   string
	Weight float64
}

// ScorecardFactors lists the scorecard weights in reporting order.
var ScorecardFactors = []ScorecardFactor{
	{FactorTechnologyQuality, 0.25},
	{FactorMarketOpportunity, 0.20},
	{FactorDevelopmentTeam, 0.15},
	{FactorCompetitivePosition, 0.15},
	{FactorDeploymentReadiness, 0.15},
	{FactorDocumentation, 0.10},
}
