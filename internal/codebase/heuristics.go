package codebase

import (
	"path"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/huangsam/repovalue/core/algo"
	"github.com/huangsam/repovalue/schema"
)

// NoneDetected fills pattern and framework lists that found nothing.
const NoneDetected = "None detected"

var codeExtensions = []string{
	".py", ".js", ".jsx", ".ts", ".tsx", ".java", ".go", ".rs",
	".cpp", ".c", ".cs", ".rb", ".php", ".swift", ".kt", ".scala",
}

var testIndicators = []string{"test", "spec", "__test__", "__tests__"}

// languageByExtension covers the common extensions; anything else is resolved by enry.
var languageByExtension = map[string]string{
	".js": "JavaScript", ".jsx": "JavaScript", ".ts": "TypeScript", ".tsx": "TypeScript",
	".py": "Python", ".java": "Java", ".go": "Go", ".rs": "Rust",
	".cpp": "C++", ".c": "C", ".cs": "C#", ".rb": "Ruby",
	".php": "PHP", ".swift": "Swift", ".kt": "Kotlin", ".scala": "Scala",
	".html": "HTML", ".css": "CSS", ".scss": "CSS", ".sass": "CSS",
	".json": "JSON", ".yaml": "YAML", ".yml": "YAML", ".xml": "XML",
}

var modernLanguages = []string{"TypeScript", "Rust", "Go", "Swift", "Kotlin"}

func isCodeFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range codeExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isTestFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ind := range testIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

func filesOf(entries []schema.ContentEntry, keep func(schema.ContentEntry) bool) []schema.ContentEntry {
	var out []schema.ContentEntry
	for _, e := range entries {
		if e.IsFile() && keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func anyEntry(entries []schema.ContentEntry, match func(schema.ContentEntry) bool) bool {
	return slices.ContainsFunc(entries, match)
}

func pathContains(entries []schema.ContentEntry, needles ...string) bool {
	return anyEntry(entries, func(e schema.ContentEntry) bool {
		p := strings.ToLower(e.Path)
		for _, n := range needles {
			if strings.Contains(p, n) {
				return true
			}
		}
		return false
	})
}

// estimateComplexity treats larger code files as more complex.
func estimateComplexity(entries []schema.ContentEntry) *schema.CodeComplexity {
	code := filesOf(entries, func(e schema.ContentEntry) bool { return isCodeFile(e.Name) })
	if len(code) == 0 {
		return &schema.CodeComplexity{}
	}
	var total float64
	for _, f := range code {
		total += float64(f.Size)
	}
	avgSize := total / float64(len(code))

	avgComplexity := algo.Clamp(avgSize/1000*2, 1, 20)
	maxComplexity := min(50, avgComplexity*2.5)
	cognitive := algo.Clamp(10-avgComplexity/3, 1, 10)
	duplication := algo.Clamp(float64(len(code))/max(total/10000, 1)*5, 0, 30)

	return &schema.CodeComplexity{
		AverageCyclomaticComplexity: algo.Round(avgComplexity, 1),
		MaxCyclomaticComplexity:     algo.Round(maxComplexity, 0),
		CognitiveComplexityScore:    algo.Round(cognitive, 1),
		DuplicationPercentage:       algo.Round(duplication, 1),
		AverageFileSize:             algo.Round(avgSize, 0),
		AverageFunctionLength:       algo.Round(avgComplexity*5, 0),
	}
}

type qualitySignals struct {
	tests, docs, ci, lint bool
}

func detectQualitySignals(entries []schema.ContentEntry) qualitySignals {
	return qualitySignals{
		tests: anyEntry(entries, func(e schema.ContentEntry) bool {
			n := strings.ToLower(e.Name)
			return e.IsFile() && (strings.Contains(n, "test") || strings.Contains(n, "spec"))
		}),
		docs: anyEntry(entries, func(e schema.ContentEntry) bool {
			switch strings.ToLower(e.Name) {
			case "readme.md", "readme.rst", "docs":
				return true
			}
			return false
		}),
		ci: anyEntry(entries, func(e schema.ContentEntry) bool {
			return strings.Contains(e.Path, ".github") || strings.Contains(strings.ToLower(e.Path), "ci")
		}),
		lint: anyEntry(entries, func(e schema.ContentEntry) bool {
			return strings.Contains(strings.ToLower(e.Name), "lint")
		}),
	}
}

// estimateQuality scores the presence of tests, docs, CI and linting.
func estimateQuality(entries []schema.ContentEntry) *schema.QualityScores {
	s := detectQualitySignals(entries)
	maintainability := 50.0
	docCoverage := 30.0
	if s.tests {
		maintainability += 15
		docCoverage += 20
	}
	if s.docs {
		maintainability += 10
		docCoverage += 30
	}
	if s.ci {
		maintainability += 10
	}
	if s.lint {
		maintainability += 10
	}

	return &schema.QualityScores{
		MaintainabilityIndex:  algo.Round(min(100, maintainability), 1),
		TechnicalDebtRatio:    algo.Round(algo.Clamp((100-maintainability)/100, 0, 1), 2),
		CodeSmellDensity:      algo.Round(max(0, (100-maintainability)/10), 1),
		DocumentationCoverage: algo.Round(min(100, docCoverage), 1),
	}
}

// estimateTestCoverage derives coverage from the test to code file ratio.
func estimateTestCoverage(entries []schema.ContentEntry) *schema.TestCoverage {
	code := filesOf(entries, func(e schema.ContentEntry) bool { return isCodeFile(e.Name) })
	if len(code) == 0 {
		return &schema.TestCoverage{}
	}
	tests := filesOf(entries, func(e schema.ContentEntry) bool { return isTestFile(e.Name) })

	ratio := float64(len(tests)) / float64(len(code))
	coverage := min(100, ratio*200)
	return &schema.TestCoverage{
		OverallCoverage:         algo.Round(coverage, 1),
		UnitTestCoverage:        algo.Round(coverage*0.7, 1),
		IntegrationTestCoverage: algo.Round(coverage*0.3, 1),
		TestToCodeRatio:         algo.Round(ratio, 2),
		TestQualityScore:        algo.Round(algo.Clamp(ratio*20+2, 0, 10), 1),
	}
}

// estimateArchitecture scores modularity from the directory to file ratio.
func estimateArchitecture(entries []schema.ContentEntry) *schema.ArchitectureScores {
	var dirs, files int
	for _, e := range entries {
		switch {
		case e.IsDir():
			dirs++
		case e.IsFile():
			files++
		}
	}
	ratio := float64(dirs) / float64(max(files, 1))
	modularity := algo.Clamp(ratio*30+5, 0, 10)
	coupling := algo.Clamp(10-ratio*20, 1, 10)
	cohesion := algo.Clamp(modularity+2, 5, 10)

	var patterns []string
	if pathContains(entries, "controller", "handler") {
		patterns = append(patterns, "MVC")
	}
	if pathContains(entries, "service") {
		patterns = append(patterns, "Service Layer")
	}
	if pathContains(entries, "repository", "repo") {
		patterns = append(patterns, "Repository")
	}
	if pathContains(entries, "factory") {
		patterns = append(patterns, "Factory")
	}
	if pathContains(entries, "adapter") {
		patterns = append(patterns, "Adapter")
	}
	if len(patterns) == 0 {
		patterns = []string{NoneDetected}
	}

	archType := "monolith"
	switch {
	case pathContains(entries, "microservice", "service"):
		archType = "microservices"
	case ratio > 0.2:
		archType = "modular_monolith"
	}

	return &schema.ArchitectureScores{
		ModularityScore:        algo.Round(modularity, 1),
		CouplingScore:          algo.Round(coupling, 1),
		CohesionScore:          algo.Round(cohesion, 1),
		DesignPatternsDetected: patterns,
		ArchitectureType:       archType,
	}
}

// estimateDocumentation scores README, docs directory and API spec presence.
func estimateDocumentation(entries []schema.ContentEntry) *schema.DocumentationScores {
	hasReadme := anyEntry(entries, func(e schema.ContentEntry) bool {
		return strings.HasPrefix(strings.ToLower(e.Name), "readme")
	})
	hasDocsDir := anyEntry(entries, func(e schema.ContentEntry) bool {
		return e.IsDir() && strings.ToLower(e.Name) == "docs"
	})
	nameHas := func(needle string) func(schema.ContentEntry) bool {
		return func(e schema.ContentEntry) bool { return strings.Contains(strings.ToLower(e.Name), needle) }
	}
	hasAPIDocs := len(filesOf(entries, func(e schema.ContentEntry) bool {
		n := strings.ToLower(e.Name)
		return strings.Contains(n, "api") || strings.Contains(n, "openapi") ||
			strings.Contains(n, "swagger") || strings.Contains(n, "graphql")
	})) > 0

	var readme float64
	if hasReadme {
		readme = 7
		if hasDocsDir {
			readme += 1.5
		}
	}
	comments := 30.0
	if hasReadme {
		comments += 20
	}
	if hasDocsDir {
		comments += 20
	}
	if hasAPIDocs {
		comments += 15
	}

	var apiType *string
	if hasAPIDocs {
		kind := "Custom"
		switch {
		case anyEntry(entries, nameHas("openapi")):
			kind = "OpenAPI"
		case anyEntry(entries, nameHas("graphql")):
			kind = "GraphQL"
		}
		apiType = &kind
	}

	return &schema.DocumentationScores{
		ReadmeQualityScore:         algo.Round(readme, 1),
		APIDocumentationPresent:    hasAPIDocs,
		APIDocumentationType:       apiType,
		CommentCoverage:            algo.Round(min(100, comments), 1),
		DocumentationFreshnessDays: 60,
	}
}

// languageOf maps a file name to a language, or "" when it has no extension.
func languageOf(name string) string {
	if !strings.Contains(name, ".") {
		return ""
	}
	ext := strings.ToLower(path.Ext(name))
	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}
	if lang, _ := enry.GetLanguageByExtension(name); lang != "" {
		return lang
	}
	return "Other"
}

// estimateTechnology reports the size-weighted language mix, frameworks and build system.
func estimateTechnology(entries []schema.ContentEntry) *schema.TechnologyStack {
	sizes := map[string]float64{}
	var total float64
	for _, e := range entries {
		if !e.IsFile() {
			continue
		}
		lang := languageOf(e.Name)
		if lang == "" {
			continue
		}
		sizes[lang] += float64(e.Size)
		total += float64(e.Size)
	}

	languages := map[string]float64{}
	if total > 0 {
		for lang, size := range sizes {
			languages[lang] = algo.Round(size/total*100, 1)
		}
	}
	modernity := 5.0
	for lang := range languages {
		if slices.Contains(modernLanguages, lang) {
			modernity++
		}
	}
	if len(languages) == 0 {
		languages = map[string]float64{"Unknown": 100}
	}

	var frameworks []string
	if pathContains(entries, "package.json") {
		if pathContains(entries, "react", "jsx") {
			frameworks = append(frameworks, "React")
		}
		if pathContains(entries, "next.config") {
			frameworks = append(frameworks, "Next.js")
		}
		if pathContains(entries, "vue") {
			frameworks = append(frameworks, "Vue")
		}
		if pathContains(entries, "angular") {
			frameworks = append(frameworks, "Angular")
		}
	}
	if pathContains(entries, "requirements.txt", "setup.py") {
		switch {
		case pathContains(entries, "django"):
			frameworks = append(frameworks, "Django")
		case pathContains(entries, "flask"):
			frameworks = append(frameworks, "Flask")
		case pathContains(entries, "fastapi"):
			frameworks = append(frameworks, "FastAPI")
		}
	}
	if len(frameworks) == 0 {
		frameworks = []string{NoneDetected}
	}

	build := "Unknown"
	switch {
	case pathContains(entries, "package.json"):
		build = "npm/yarn"
	case pathContains(entries, "pom.xml"):
		build = "Maven"
	case pathContains(entries, "build.gradle"):
		build = "Gradle"
	case pathContains(entries, "cargo.toml"):
		build = "Cargo"
	case pathContains(entries, "go.mod"):
		build = "Go Modules"
	}

	return &schema.TechnologyStack{
		PrimaryLanguages:       languages,
		Frameworks:             frameworks,
		LanguageModernityScore: algo.Round(min(10, modernity), 1),
		BuildSystem:            build,
	}
}
