package outwriter

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
)

// WriteCodebaseResult outputs a heuristic codebase estimate using the configured output format.
func WriteCodebaseResult(subject string, analysis *schema.CodebaseAnalysis, cfg *contract.Config) error {
	rep := &report{
		Kind:     "codebase",
		Emoji:    "🔬",
		Title:    "Codebase analysis",
		Subject:  subject,
		Sections: codebaseSections(analysis, cfg.Precision),
		Payload:  analysis,
	}
	if analysis.Succeeded() && analysis.Heuristic {
		rep.Footer = []string{"Figures are heuristic estimates from the repository layout, not static analysis."}
	}
	return writeReport(rep, cfg)
}

// codebaseSummary condenses an estimate into the figures scoring reads.
func codebaseSummary(c *schema.CodebaseAnalysis, precision int) section {
	fmtFloat, _ := createFormatters(precision)
	s := section{Title: "Codebase"}
	s.add(textField("Status", c.Status))
	if !c.Succeeded() {
		if c.Error != "" {
			s.add(textField("Error", c.Error))
		}
		return s
	}
	total, critical, _ := c.Vulnerabilities()
	s.add(
		numField("Maintainability index", c.Maintainability(), fmtFloat(c.Maintainability())),
		numField("Test coverage", c.Coverage(), fmtFloat(c.Coverage())+"%"),
		numField("Readme quality", c.ReadmeQuality(), fmtFloat(c.ReadmeQuality())),
		textField("Vulnerabilities", fmt.Sprintf("%d (%d critical)", total, critical)),
	)
	return s
}

func codebaseSections(c *schema.CodebaseAnalysis, precision int) []section {
	fmtFloat, intFmt := createFormatters(precision)
	pct := func(v float64) string { return fmtFloat(v) + "%" }

	head := section{Title: "Analysis"}
	head.add(textField("Status", c.Status))
	if c.Error != "" {
		head.add(textField("Error", c.Error))
	}
	if c.AnalysisDepth != "" {
		head.add(textField("Depth", string(c.AnalysisDepth)))
	}
	if c.AnalysisTimestamp != "" {
		head.add(textField("Timestamp", c.AnalysisTimestamp))
	}
	sections := []section{head}
	if !c.Succeeded() {
		return sections
	}

	if cc := c.CodeComplexity; cc != nil {
		s := section{Title: "Complexity"}
		s.add(
			numField("Average cyclomatic", cc.AverageCyclomaticComplexity, fmtFloat(cc.AverageCyclomaticComplexity)),
			numField("Max cyclomatic", cc.MaxCyclomaticComplexity, fmtFloat(cc.MaxCyclomaticComplexity)),
			numField("Cognitive score", cc.CognitiveComplexityScore, fmtFloat(cc.CognitiveComplexityScore)),
			numField("Duplication", cc.DuplicationPercentage, pct(cc.DuplicationPercentage)),
			numField("Average file size", cc.AverageFileSize, fmtFloat(cc.AverageFileSize)),
			numField("Average function length", cc.AverageFunctionLength, fmtFloat(cc.AverageFunctionLength)),
		)
		sections = append(sections, s)
	}
	if q := c.QualityScores; q != nil {
		s := section{Title: "Quality"}
		s.add(
			numField("Maintainability index", q.MaintainabilityIndex, fmtFloat(q.MaintainabilityIndex)),
			numField("Technical debt ratio", q.TechnicalDebtRatio, formatRatio(q.TechnicalDebtRatio)),
			numField("Code smell density", q.CodeSmellDensity, fmtFloat(q.CodeSmellDensity)),
			numField("Documentation coverage", q.DocumentationCoverage, pct(q.DocumentationCoverage)),
		)
		sections = append(sections, s)
	}
	if t := c.TestCoverage; t != nil {
		s := section{Title: "Tests"}
		s.add(
			numField("Overall coverage", t.OverallCoverage, pct(t.OverallCoverage)),
			numField("Unit coverage", t.UnitTestCoverage, pct(t.UnitTestCoverage)),
			numField("Integration coverage", t.IntegrationTestCoverage, pct(t.IntegrationTestCoverage)),
			numField("Test to code ratio", t.TestToCodeRatio, formatRatio(t.TestToCodeRatio)),
			numField("Test quality", t.TestQualityScore, fmtFloat(t.TestQualityScore)),
		)
		sections = append(sections, s)
	}
	if d := c.Dependencies; d != nil {
		s := section{Title: "Dependencies"}
		s.add(
			numField("Total", float64(d.TotalDependencies), fmt.Sprintf(intFmt, d.TotalDependencies)),
			numField("Outdated", float64(d.OutdatedCount), fmt.Sprintf("%d (%s)", d.OutdatedCount, pct(d.OutdatedPercentage))),
			numField("Vulnerabilities", float64(d.SecurityVulnerabilities), fmt.Sprintf(intFmt, d.SecurityVulnerabilities)),
			numField("Critical vulnerabilities", float64(d.CriticalVulnerabilities), fmt.Sprintf(intFmt, d.CriticalVulnerabilities)),
			numField("License compliance", d.LicenseComplianceScore, fmtFloat(d.LicenseComplianceScore)),
			numField("Average age (days)", float64(d.AverageDependencyAgeDays), fmt.Sprintf(intFmt, d.AverageDependencyAgeDays)),
		)
		if len(d.ManifestFiles) > 0 {
			s.add(textField("Manifests", strings.Join(d.ManifestFiles, ", ")))
		}
		sections = append(sections, s)
	}
	if a := c.Architecture; a != nil {
		s := section{Title: "Architecture"}
		s.add(
			textField("Type", a.ArchitectureType),
			numField("Modularity", a.ModularityScore, fmtFloat(a.ModularityScore)),
			numField("Coupling", a.CouplingScore, fmtFloat(a.CouplingScore)),
			numField("Cohesion", a.CohesionScore, fmtFloat(a.CohesionScore)),
		)
		if len(a.DesignPatternsDetected) > 0 {
			s.add(textField("Patterns", strings.Join(a.DesignPatternsDetected, ", ")))
		}
		sections = append(sections, s)
	}
	if doc := c.Documentation; doc != nil {
		s := section{Title: "Documentation"}
		apiDocs := "no"
		if doc.APIDocumentationPresent {
			apiDocs = "yes"
			if doc.APIDocumentationType != nil {
				apiDocs = *doc.APIDocumentationType
			}
		}
		s.add(
			numField("Readme quality", doc.ReadmeQualityScore, fmtFloat(doc.ReadmeQualityScore)),
			textField("API docs", apiDocs),
			numField("Comment coverage", doc.CommentCoverage, pct(doc.CommentCoverage)),
			numField("Freshness (days)", float64(doc.DocumentationFreshnessDays), fmt.Sprintf(intFmt, doc.DocumentationFreshnessDays)),
		)
		sections = append(sections, s)
	}
	if ts := c.TechnologyStack; ts != nil {
		s := section{Title: "Technology"}
		for _, lang := range slices.Sorted(maps.Keys(ts.PrimaryLanguages)) {
			share := ts.PrimaryLanguages[lang]
			s.add(numField(lang, share, pct(share)))
		}
		if len(ts.Frameworks) > 0 {
			s.add(textField("Frameworks", strings.Join(ts.Frameworks, ", ")))
		}
		s.add(
			numField("Language modernity", ts.LanguageModernityScore, fmtFloat(ts.LanguageModernityScore)),
			textField("Build system", orDash(ts.BuildSystem)),
		)
		sections = append(sections, s)
	}
	return sections
}
