package schema

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Defaults used when a successful codebase analysis lacks a sub-record.
const (
	DefaultMaintainability   = 50.0
	DefaultArchitectureScore = 5.0
)

// CodeComplexity holds size-derived complexity estimates.
type CodeComplexity struct {
	AverageCyclomaticComplexity float64 `json:"average_cyclomatic_complexity"`
	MaxCyclomaticComplexity     float64 `json:"max_cyclomatic_complexity"`
	CognitiveComplexityScore    float64 `json:"cognitive_complexity_score"` // 0-10
	DuplicationPercentage       float64 `json:"duplication_percentage"`
	AverageFileSize             float64 `json:"average_file_size"`
	AverageFunctionLength       float64 `json:"average_function_length"`
}

// QualityScores holds maintainability estimates.
type QualityScores struct {
	MaintainabilityIndex  float64 `json:"maintainability_index"` // 0-100
	TechnicalDebtRatio    float64 `json:"technical_debt_ratio"`  // 0-1
	CodeSmellDensity      float64 `json:"code_smell_density"`
	DocumentationCoverage float64 `json:"documentation_coverage"` // 0-100
}

// TestCoverage holds test-ratio estimates.
type TestCoverage struct {
	OverallCoverage         float64 `json:"overall_coverage"`
	UnitTestCoverage        float64 `json:"unit_test_coverage"`
	IntegrationTestCoverage float64 `json:"integration_test_coverage"`
	TestToCodeRatio         float64 `json:"test_to_code_ratio"`
	TestQualityScore        float64 `json:"test_quality_score"` // 0-10
}

// DependencyHealth holds dependency estimates.
type DependencyHealth struct {
	TotalDependencies        int      `json:"total_dependencies"`
	OutdatedCount            int      `json:"outdated_count"`
	OutdatedPercentage       float64  `json:"outdated_percentage"`
	SecurityVulnerabilities  int      `json:"security_vulnerabilities"`
	CriticalVulnerabilities  int      `json:"critical_vulnerabilities"`
	LicenseComplianceScore   float64  `json:"license_compliance_score"`
	AverageDependencyAgeDays int      `json:"average_dependency_age_days"`
	ManifestFiles            []string `json:"manifest_files,omitempty"`
}

// ArchitectureScores holds layout-derived design estimates.
type ArchitectureScores struct {
	ModularityScore        float64  `json:"modularity_score"` // 0-10
	CouplingScore          float64  `json:"coupling_score"`   // 0-10
	CohesionScore          float64  `json:"cohesion_score"`   // 0-10
	DesignPatternsDetected []string `json:"design_patterns_detected"`
	ArchitectureType       string   `json:"architecture_type"`
}

// DocumentationScores holds documentation estimates.
type DocumentationScores struct {
	ReadmeQualityScore         float64 `json:"readme_quality_score"` // 0-10
	APIDocumentationPresent    bool    `json:"api_documentation_present"`
	APIDocumentationType       *string `json:"api_documentation_type"`
	CommentCoverage            float64 `json:"comment_coverage"`
	DocumentationFreshnessDays int     `json:"documentation_freshness_days"`
}

// TechnologyStack holds the language and tooling mix.
type TechnologyStack struct {
	PrimaryLanguages       map[string]float64 `json:"primary_languages"`
	Frameworks             []string           `json:"frameworks"`
	LanguageModernityScore float64            `json:"language_modernity_score"` // 0-10
	BuildSystem            string             `json:"build_system"`
}

// CodebaseAnalysis is the heuristic codebase estimate for one repository.
// Only Status "success" records influence scoring.
type CodebaseAnalysis struct {
	Status            string               `json:"status"`
	Error             string               `json:"error,omitempty"`
	AnalysisTimestamp string               `json:"analysis_timestamp"`
	AnalysisDepth     AnalysisDepth        `json:"analysis_depth,omitempty"`
	Heuristic         bool                 `json:"heuristic"`
	CodeComplexity    *CodeComplexity      `json:"code_complexity,omitempty"`
	QualityScores     *QualityScores       `json:"quality_scores,omitempty"`
	TestCoverage      *TestCoverage        `json:"test_coverage,omitempty"`
	Dependencies      *DependencyHealth    `json:"dependencies,omitempty"`
	Architecture      *ArchitectureScores  `json:"architecture,omitempty"`
	Documentation     *DocumentationScores `json:"documentation,omitempty"`
	TechnologyStack   *TechnologyStack     `json:"technology_stack,omitempty"`
}

// Succeeded reports whether the record may be trusted by scoring.
func (c *CodebaseAnalysis) Succeeded() bool {
	return c != nil && c.Status == StatusSuccess
}

// Maintainability returns the maintainability index or its default.
func (c *CodebaseAnalysis) Maintainability() float64 {
	if c == nil || c.QualityScores == nil {
		return DefaultMaintainability
	}
	return c.QualityScores.MaintainabilityIndex
}

// ArchitectureTriple returns modularity, coupling and cohesion or their defaults.
func (c *CodebaseAnalysis) ArchitectureTriple() (modularity, coupling, cohesion float64) {
	if c == nil || c.Architecture == nil {
		return DefaultArchitectureScore, DefaultArchitectureScore, DefaultArchitectureScore
	}
	a := c.Architecture
	return a.ModularityScore, a.CouplingScore, a.CohesionScore
}

// Vulnerabilities returns total and critical vulnerability counts plus the outdated percentage.
func (c *CodebaseAnalysis) Vulnerabilities() (total, critical int, outdatedPct float64) {
	if c == nil || c.Dependencies == nil {
		return 0, 0, 0
	}
	d := c.Dependencies
	return d.SecurityVulnerabilities, d.CriticalVulnerabilities, d.OutdatedPercentage
}

// Coverage returns the overall test coverage percentage.
func (c *CodebaseAnalysis) Coverage() float64 {
	if c == nil || c.TestCoverage == nil {
		return 0
	}
	return c.TestCoverage.OverallCoverage
}

// ReadmeQuality returns the README quality on its 0-10 scale.
func (c *CodebaseAnalysis) ReadmeQuality() float64 {
	if c == nil || c.Documentation == nil {
		return 0
	}
	return c.Documentation.ReadmeQualityScore
}

func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampCount(v int) int {
	return max(v, 0)
}

// Clone returns a copy that shares no sub-records with c.
func (c *CodebaseAnalysis) Clone() *CodebaseAnalysis {
	if c == nil {
		return nil
	}
	out := *c
	if c.CodeComplexity != nil {
		v := *c.CodeComplexity
		out.CodeComplexity = &v
	}
	if c.QualityScores != nil {
		v := *c.QualityScores
		out.QualityScores = &v
	}
	if c.TestCoverage != nil {
		v := *c.TestCoverage
		out.TestCoverage = &v
	}
	if c.Dependencies != nil {
		v := *c.Dependencies
		v.ManifestFiles = slices.Clone(v.ManifestFiles)
		out.Dependencies = &v
	}
	if c.Architecture != nil {
		v := *c.Architecture
		v.DesignPatternsDetected = slices.Clone(v.DesignPatternsDetected)
		out.Architecture = &v
	}
	if c.Documentation != nil {
		v := *c.Documentation
		out.Documentation = &v
	}
	if c.TechnologyStack != nil {
		v := *c.TechnologyStack
		v.PrimaryLanguages = maps.Clone(v.PrimaryLanguages)
		v.Frameworks = slices.Clone(v.Frameworks)
		out.TechnologyStack = &v
	}
	return &out
}

// Clamp forces percentage fields into [0,100], 0-10 fields into [0,10] and counts to be non-negative.
func (c *CodebaseAnalysis) Clamp() {
	if c == nil {
		return
	}
	if q := c.QualityScores; q != nil {
		q.MaintainabilityIndex = clampRange(q.MaintainabilityIndex, 0, 100)
		q.TechnicalDebtRatio = clampRange(q.TechnicalDebtRatio, 0, 1)
		q.CodeSmellDensity = max(q.CodeSmellDensity, 0)
		q.DocumentationCoverage = clampRange(q.DocumentationCoverage, 0, 100)
	}
	if t := c.TestCoverage; t != nil {
		t.OverallCoverage = clampRange(t.OverallCoverage, 0, 100)
		t.UnitTestCoverage = clampRange(t.UnitTestCoverage, 0, 100)
		t.IntegrationTestCoverage = clampRange(t.IntegrationTestCoverage, 0, 100)
		t.TestToCodeRatio = max(t.TestToCodeRatio, 0)
		t.TestQualityScore = clampRange(t.TestQualityScore, 0, 10)
	}
	if d := c.Dependencies; d != nil {
		d.TotalDependencies = clampCount(d.TotalDependencies)
		d.OutdatedCount = clampCount(d.OutdatedCount)
		d.OutdatedPercentage = clampRange(d.OutdatedPercentage, 0, 100)
		d.SecurityVulnerabilities = clampCount(d.SecurityVulnerabilities)
		d.CriticalVulnerabilities = clampCount(d.CriticalVulnerabilities)
		d.LicenseComplianceScore = clampRange(d.LicenseComplianceScore, 0, 100)
	}
	if a := c.Architecture; a != nil {
		a.ModularityScore = clampRange(a.ModularityScore, 0, 10)
		a.CouplingScore = clampRange(a.CouplingScore, 0, 10)
		a.CohesionScore = clampRange(a.CohesionScore, 0, 10)
	}
	if doc := c.Documentation; doc != nil {
		doc.ReadmeQualityScore = clampRange(doc.ReadmeQualityScore, 0, 10)
		doc.CommentCoverage = clampRange(doc.CommentCoverage, 0, 100)
	}
	if cc := c.CodeComplexity; cc != nil {
		cc.CognitiveComplexityScore = clampRange(cc.CognitiveComplexityScore, 0, 10)
		cc.DuplicationPercentage = clampRange(cc.DuplicationPercentage, 0, 100)
	}
	if ts := c.TechnologyStack; ts != nil {
		ts.LanguageModernityScore = clampRange(ts.LanguageModernityScore, 0, 10)
	}
}

// CodebaseOptions selects what a codebase estimate covers.
type CodebaseOptions struct {
	Depth   AnalysisDepth
	Include []MetricCategory
}

// DefaultCodebaseOptions covers every category at standard depth.
func DefaultCodebaseOptions() CodebaseOptions {
	return CodebaseOptions{Depth: StandardDepth, Include: []MetricCategory{AllMetrics}}
}

// ParseCodebaseOptions validates a depth and a list of metric names.
func ParseCodebaseOptions(depth string, include []string) (CodebaseOptions, error) {
	opts := DefaultCodebaseOptions()
	if depth != "" {
		d := AnalysisDepth(strings.ToLower(strings.TrimSpace(depth)))
		if _, ok := ValidAnalysisDepths[d]; !ok {
			return opts, fmt.Errorf("invalid analysis depth: %s. Must be quick, standard or deep", depth)
		}
		opts.Depth = d
	}
	var cats []MetricCategory
	for _, name := range include {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		m := MetricCategory(name)
		if _, ok := ValidMetricCategories[m]; !ok {
			return opts, fmt.Errorf("invalid metric category: %s", name)
		}
		cats = append(cats, m)
	}
	if len(cats) > 0 {
		opts.Include = cats
	}
	return opts, nil
}

// Wants reports whether a category was requested.
func (o CodebaseOptions) Wants(m MetricCategory) bool {
	if len(o.Include) == 0 {
		return true
	}
	return slices.Contains(o.Include, AllMetrics) || slices.Contains(o.Include, m)
}

// ManifestReadLimit bounds how many manifest files a depth may read; zero means no limit.
func (o CodebaseOptions) ManifestReadLimit() int {
	switch o.Depth {
	case QuickDepth:
		return 1
	case DeepDepth:
		return 0
	default:
		return 3
	}
}
