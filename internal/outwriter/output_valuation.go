package outwriter

import (
	"fmt"
	"strings"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
)

// methodTitles labels each valuation method in text output.
var methodTitles = map[schema.ValuationMethod]string{
	schema.CostBased:     "Cost-based valuation",
	schema.MarketBased:   "Market-based valuation",
	schema.IncomeBased:   "Income-based valuation",
	schema.Scorecard:     "Scorecard valuation",
	schema.UnicornHunter: "Unicorn hunter",
}

// WriteValuationResult outputs a valuation using the configured output format.
func WriteValuationResult(subject string, result schema.ValuationResult, cfg *contract.Config) error {
	if result.Unicorn != nil {
		return WriteUnicornResult(subject, *result.Unicorn, cfg)
	}
	rep := &report{
		Kind:     "valuation",
		Emoji:    "💰",
		Title:    methodTitle(result.Method),
		Subject:  subject,
		Sections: valuationSections(result, cfg.Precision),
		Payload:  result,
	}
	return writeReport(rep, cfg)
}

func methodTitle(m schema.ValuationMethod) string {
	if title, ok := methodTitles[m]; ok {
		return title
	}
	return string(m)
}

func valuationSections(result schema.ValuationResult, precision int) []section {
	fmtFloat, _ := createFormatters(precision)

	switch {
	case result.Simple != nil:
		s := section{Title: "Valuation"}
		s.add(
			textField("Method", string(result.Simple.Method)),
			numField("Valuation", result.Simple.Valuation, formatDollars(result.Simple.Valuation)),
			textField("Currency", result.Simple.Currency),
		)
		return []section{s}

	case result.Scorecard != nil:
		sc := result.Scorecard
		factors := section{Title: "Scorecard factors"}
		for _, f := range schema.ScorecardFactors {
			if v, ok := sc.FactorScores[f.Name]; ok {
				factors.add(numField(humanizeKey(f.Name), v, formatRatio(v)))
			}
		}
		factors.add(numField("Total score", sc.TotalScore, formatRatio(sc.TotalScore)))

		r := sc.ValuationRange
		ranges := section{Title: "Valuation range"}
		ranges.add(
			numField("Low", r.Low, formatDollars(r.Low)),
			numField("Medium", r.Medium, formatDollars(r.Medium)),
			numField("High", r.High, formatDollars(r.High)),
		)
		return []section{factors, ranges}

	case result.Income != nil:
		in := result.Income
		s := section{Title: "Income model"}
		s.add(
			numField("Estimated annual revenue", in.EstimatedAnnualRevenue, formatDollars(in.EstimatedAnnualRevenue)),
			numField("Revenue multiple", in.RevenueMultiple, fmtFloat(in.RevenueMultiple)+"x"),
			numField("Discount rate", in.DiscountRate, fmt.Sprintf("%.0f%%", in.DiscountRate*100)),
			numField("Valuation", in.Valuation, formatDollars(in.Valuation)),
		)
		return []section{s}

	case result.Unicorn != nil:
		return unicornSections(*result.Unicorn, precision)
	}
	return nil
}

// WriteUnicornResult outputs a unicorn hunter result using the configured output format.
func WriteUnicornResult(subject string, result schema.UnicornResult, cfg *contract.Config) error {
	rep := &report{
		Kind:     "unicorn",
		Emoji:    "🦄",
		Title:    "Unicorn hunter",
		Subject:  subject,
		Sections: unicornSections(result, cfg.Precision),
		Footer:   []string{result.Interpretation.ValuationNote},
		Payload:  result,
	}
	return writeReport(rep, cfg)
}

func unicornSections(result schema.UnicornResult, precision int) []section {
	fmtFloat, _ := createFormatters(precision)

	score := section{Title: "Unicorn score"}
	score.add(
		numField("Score", result.UnicornScore, fmtFloat(result.UnicornScore)),
		tierField(result.Tier),
		textField("Status", result.Status),
		textField("Weight profile", string(result.WeightProfile)),
	)

	components := section{Title: "Components"}
	for _, key := range schema.AllComponentKeys {
		if v, ok := result.ComponentScores[key]; ok {
			components.add(numField(humanizeKey(string(key)), v, fmtFloat(v)))
		}
	}

	r := result.ValuationRanges
	ranges := section{Title: "Speculative valuation"}
	ranges.add(
		numField("Conservative", r.Conservative, formatDollars(r.Conservative)),
		numField("Realistic", r.Realistic, formatDollars(r.Realistic)),
		numField("Optimistic", r.Optimistic, formatDollars(r.Optimistic)),
		numField("Maximum cap", r.MaximumCap, formatDollars(r.MaximumCap)),
	)

	sections := []section{score, components, ranges}

	if eco := result.EcosystemAdoption; eco != nil {
		adopt := section{Title: "Ecosystem adoption"}
		adopt.add(
			textField("Package", fmt.Sprintf("%s (%s)", eco.PackageName, eco.PackageManager)),
			numField("Adoption score", eco.AdoptionScore, fmtFloat(eco.AdoptionScore)),
		)
		sections = append(sections, adopt)
	}
	if result.CodebaseAnalysis != nil {
		sections = append(sections, codebaseSummary(result.CodebaseAnalysis, precision))
	}

	meaning := section{Title: "Interpretation"}
	meaning.add(textField("Meaning", result.Interpretation.ScoreMeaning))
	return append(sections, meaning)
}

// WriteAgentResult outputs whatever the agent gathered for a query.
func WriteAgentResult(query string, result schema.AgentResult, cfg *contract.Config) error {
	head := section{Title: "Agent"}
	head.add(textField("Query", query), textField("Repository", result.Repository))
	if result.EcosystemAdoptionScore != nil {
		v := *result.EcosystemAdoptionScore
		fmtFloat, _ := createFormatters(cfg.Precision)
		head.add(numField("Ecosystem adoption score", v, fmtFloat(v)))
	}

	sections := []section{head}
	sections = append(sections, repositorySections(result.Analysis, cfg.Precision)...)
	if result.PackageStats != nil && result.PackageStats.Succeeded() {
		pkg := section{Title: "Package"}
		pkg.add(
			textField("Package manager", string(result.PackageStats.PackageManager)),
			textField("Package", result.PackageStats.PackageName),
		)
		sections = append(sections, pkg)
	}
	switch {
	case result.UnicornHunter != nil:
		sections = append(sections, unicornSections(*result.UnicornHunter, cfg.Precision)...)
	case result.CodebaseAnalysis != nil:
		sections = append(sections, codebaseSummary(result.CodebaseAnalysis, cfg.Precision))
	}
	if result.Valuation != nil {
		sections = append(sections, valuationSections(*result.Valuation, cfg.Precision)...)
	}

	var footer []string
	if result.Summary != "" {
		footer = append(footer, result.Summary)
	}
	if result.Suggestion != "" {
		footer = append(footer, result.Suggestion)
	}

	rep := &report{
		Kind:     "agent",
		Emoji:    "🤖",
		Title:    "Agent",
		Subject:  result.Repository,
		Sections: sections,
		Footer:   footer,
		Payload:  result,
	}
	return writeReport(rep, cfg)
}

// WriteAgentHint outputs the guidance returned when a query names no repository.
func WriteAgentHint(hint schema.AgentHint, cfg *contract.Config) error {
	s := section{Title: "No repository found"}
	s.add(textField("Error", hint.Error), textField("Hint", hint.Hint))
	for i, q := range hint.ExampleQueries {
		s.add(textField(fmt.Sprintf("Example %d", i+1), q))
	}
	rep := &report{
		Kind:     "agent",
		Emoji:    "🤖",
		Title:    "Agent",
		Sections: []section{s},
		Payload:  hint,
	}
	return writeReport(rep, cfg)
}

// humanizeKey turns a snake_case key into a label.
func humanizeKey(key string) string {
	words := strings.Split(key, "_")
	if len(words) > 0 && words[0] != "" {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}
