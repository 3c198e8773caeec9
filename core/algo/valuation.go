package algo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/repovalue/schema"
)

// Power-law parameters for the speculative ranges.
const (
	conservativeExponent = 2.2
	conservativeBase     = 5_000_000.0
	realisticExponent    = 2.5
	realisticBase        = 10_000_000.0
	optimisticExponent   = 2.8
	optimisticBase       = 20_000_000.0
)

const (
	baseValuationNote     = "These are speculative estimates based on GitHub metrics and should not be considered financial advice."
	enrichedValuationNote = "These are speculative estimates based on GitHub metrics and codebase analysis. " +
		"Code quality score: %s/100. Test coverage: %s%%. Security vulnerabilities: %d critical."
)

func powerLaw(u, exponent, base float64) float64 {
	return Clamp(math.Pow(u/100, exponent)*base, 0, schema.MaxValuation)
}

// SpeculativeRanges maps a unicorn score in [0,100] to its capped dollar figures.
// Below a score of roughly 10 the raw curves cross, so each figure is floored
// at the one before it to keep conservative <= realistic <= optimistic.
func SpeculativeRanges(u float64) schema.ValuationRanges {
	u = Clamp(u, 0, 100)
	conservative := powerLaw(u, conservativeExponent, conservativeBase)
	realistic := max(conservative, powerLaw(u, realisticExponent, realisticBase))
	optimistic := max(realistic, powerLaw(u, optimisticExponent, optimisticBase))
	return schema.ValuationRanges{
		Conservative: Round(conservative, 2),
		Realistic:    Round(realistic, 2),
		Optimistic:   Round(optimistic, 2),
		MaximumCap:   schema.MaxValuation,
		Currency:     schema.Currency,
	}
}

// ClassifyTier returns the band whose inclusive lower bound u reaches first.
func ClassifyTier(u float64) schema.TierBand {
	for _, band := range schema.TierBands {
		if u >= band.MinScore {
			return band
		}
	}
	return schema.TierBands[len(schema.TierBands)-1]
}

// UnicornScore aggregates the rounded components under a profile, clamped to [0,100] and rounded to one decimal.
func UnicornScore(scores map[schema.ComponentKey]float64, profile schema.WeightProfile) float64 {
	return Round(Clamp(WeightedScore(scores, profile), 0, 100), 1)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// HuntUnicorn computes the unicorn score, tier and speculative ranges for a repository.
// The codebase record is optional; only a successful one switches to the enriched profile.
func HuntUnicorn(data schema.RepoData, codebase *schema.CodebaseAnalysis) schema.UnicornResult {
	profile := SelectProfile(codebase)
	var enriched *schema.CodebaseAnalysis
	if profile == schema.EnrichedProfile {
		enriched = codebase.Clone()
		enriched.Clamp()
	}

	scores := ComponentScores(data, enriched, profile)
	u := UnicornScore(scores, profile)
	band := ClassifyTier(u)

	result := schema.UnicornResult{
		Method:          schema.UnicornHunter,
		UnicornScore:    u,
		Status:          band.Status,
		Tier:            band.Tier,
		WeightProfile:   profile,
		ComponentScores: scores,
		ValuationRanges: SpeculativeRanges(u),
		Interpretation: schema.Interpretation{
			ScoreMeaning:      fmt.Sprintf("Score of %s/100 indicates %s", formatScore(u), strings.ToLower(band.Status)),
			ValuationNote:     baseValuationNote,
			FactorsConsidered: append([]schema.ComponentKey(nil), schema.AllComponentKeys...),
		},
	}

	if enriched != nil {
		vulns, _, _ := enriched.Vulnerabilities()
		result.CodebaseAnalysis = enriched
		result.Interpretation.ValuationNote = fmt.Sprintf(enrichedValuationNote,
			formatScore(scores[schema.CodeQuality]),
			formatScore(Round(enriched.Coverage(), 1)),
			vulns)
	}
	return result
}
