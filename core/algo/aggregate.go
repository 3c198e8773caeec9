package algo

import "github.com/huangsam/repovalue/schema"

// SelectProfile picks the weight table for a call. Only a successful codebase analysis enriches.
func SelectProfile(codebase *schema.CodebaseAnalysis) schema.WeightProfile {
	if codebase.Succeeded() {
		return schema.EnrichedProfile
	}
	return schema.BaselineProfile
}

// CommunityMomentum blends star, fork and watcher curves.
func CommunityMomentum(m schema.RepositoryMetrics) float64 {
	star := Normalize(float64(m.Stars), StarCurve)
	fork := Normalize(float64(m.Forks), ForkCurve)
	watcher := Normalize(float64(m.Watchers), WatcherCurve)
	return star*0.5 + fork*0.3 + watcher*0.2
}

// DevelopmentVelocity blends contributor, commit and frequency curves.
func DevelopmentVelocity(d schema.DevelopmentActivity) float64 {
	contributor := Normalize(float64(d.Contributors), ContributorCurve)
	commit := Normalize(float64(d.TotalCommits), CommitCurve)
	frequency := Normalize(d.CommitFrequency, FrequencyCurve)
	return contributor*0.3 + commit*0.4 + frequency*0.3
}

// BaselineTechnology scales the fetcher's [0,1] scores to [0,100].
func BaselineTechnology(s schema.RepositoryScores) float64 {
	return (s.OverallScore*0.4 + s.HealthScore*0.3 + s.ActivityScore*0.3) * 100
}

// ArchitectureScore rescales modularity, inverted coupling and cohesion to [0,100].
func ArchitectureScore(c *schema.CodebaseAnalysis) float64 {
	modularity, coupling, cohesion := c.ArchitectureTriple()
	return modularity*10*0.4 + (10-coupling)*10*0.3 + cohesion*10*0.3
}

// DependencyHealth subtracts 5 points per vulnerability and half a point per outdated percent.
func DependencyHealth(c *schema.CodebaseAnalysis) float64 {
	vulns, _, outdated := c.Vulnerabilities()
	return max(0, 100-float64(vulns)*5-outdated*0.5)
}

// EnrichedTechnology blends the baseline with maintainability, architecture and dependency health.
func EnrichedTechnology(s schema.RepositoryScores, c *schema.CodebaseAnalysis) float64 {
	tech := BaselineTechnology(s)*0.3 +
		c.Maintainability()*0.4 +
		ArchitectureScore(c)*0.3 +
		DependencyHealth(c)*0.3
	return Clamp(tech, 0, 100)
}

// MarketPotential sums the unclamped market curves and clamps the total.
func MarketPotential(m schema.RepositoryMetrics, d schema.DevelopmentActivity) float64 {
	sum := MarketStarCurve.Raw(float64(m.Stars)) +
		MarketForkCurve.Raw(float64(m.Forks)) +
		MarketContributorCurve.Raw(float64(d.Contributors))
	return Clamp(sum, 0, 100)
}

// NetworkEffects sums the fork and watcher network curves and clamps the total.
// Both curves start at 50, so any input reaches the cap.
func NetworkEffects(m schema.RepositoryMetrics) float64 {
	sum := NetworkForkCurve.Raw(float64(m.Forks)) + NetworkWatcherCurve.Raw(float64(m.Watchers))
	return Clamp(sum, 0, 100)
}

// CodeQuality blends maintainability, coverage and README quality.
func CodeQuality(c *schema.CodebaseAnalysis) float64 {
	return Clamp(c.Maintainability()*0.4+c.Coverage()*0.35+c.ReadmeQuality()*10*0.25, 0, 100)
}

// SecurityPosture subtracts 20 points per critical and 5 per any vulnerability.
func SecurityPosture(c *schema.CodebaseAnalysis) float64 {
	vulns, critical, _ := c.Vulnerabilities()
	return max(0, 100-float64(critical)*20-float64(vulns)*5)
}

// component bounds a dimension to [0,100] and rounds it to one decimal.
func component(v float64) float64 {
	return Round(Clamp(v, 0, 100), 1)
}

// ComponentScores computes all seven components, each rounded to one decimal.
// Under the baseline profile code_quality and security_posture are reported as 0.
// Technology quality is the only baseline dimension that reads the codebase record.
func ComponentScores(data schema.RepoData, codebase *schema.CodebaseAnalysis, profile schema.WeightProfile) map[schema.ComponentKey]float64 {
	tech := BaselineTechnology(data.Scores)
	codeQuality, security := 0.0, 0.0
	if profile == schema.EnrichedProfile {
		tech = EnrichedTechnology(data.Scores, codebase)
		codeQuality = CodeQuality(codebase)
		security = SecurityPosture(codebase)
	}

	return map[schema.ComponentKey]float64{
		schema.CommunityMomentum:   component(CommunityMomentum(data.Metrics)),
		schema.DevelopmentVelocity: component(DevelopmentVelocity(data.Development)),
		schema.TechnologyQuality:   component(tech),
		schema.MarketPotential:     component(MarketPotential(data.Metrics, data.Development)),
		schema.NetworkEffects:      component(NetworkEffects(data.Metrics)),
		schema.CodeQuality:         component(codeQuality),
		schema.SecurityPosture:     component(security),
	}
}

// WeightedScore walks the profile's ordered weight table. Keys outside the table never contribute.
func WeightedScore(scores map[schema.ComponentKey]float64, profile schema.WeightProfile) float64 {
	var total float64
	for _, w := range schema.GetDefaultWeights(profile) {
		if v, ok := scores[w.Key]; ok {
			total += v * w.Weight
		}
	}
	return total
}
