package codebase

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/huangsam/repovalue/schema"
	"github.com/pelletier/go-toml/v2"
	"github.com/sourcegraph/conc"
)

// Dependency estimate constants.
const (
	fallbackDependencyCount = 20
	outdatedPercentage      = 20.0
	vulnerablePercentage    = 3.0
	criticalShare           = 0.2
	licenseComplianceScore  = 95.0
	averageDependencyAge    = 180
)

// manifestEcosystems maps dependency manifest names to their ecosystem.
var manifestEcosystems = map[string]string{
	"package.json":     "npm",
	"requirements.txt": "pip",
	"Pipfile":          "pipenv",
	"poetry.lock":      "poetry",
	"go.mod":           "go",
	"Cargo.toml":       "rust",
	"pom.xml":          "maven",
	"build.gradle":     "gradle",
}

// estimateDependencies counts declared dependencies in the root manifests and
// derives outdated and vulnerable estimates from fixed industry ratios.
func (a *Analyzer) estimateDependencies(ctx context.Context, owner, repo string, entries []schema.ContentEntry, limit int) *schema.DependencyHealth {
	var manifests []string
	for _, e := range entries {
		if _, ok := manifestEcosystems[e.Name]; ok {
			manifests = append(manifests, e.Name)
		}
	}
	if len(manifests) == 0 {
		return &schema.DependencyHealth{LicenseComplianceScore: 100}
	}
	read := manifests
	if limit > 0 && len(read) > limit {
		read = read[:limit]
	}

	counts := make([]int, len(read))
	wg := conc.NewWaitGroup()
	for i, name := range read {
		wg.Go(func() {
			content, err := a.lister.ReadFile(ctx, owner, repo, name)
			if err != nil {
				return
			}
			counts[i] = countDependencies(name, content)
		})
	}
	wg.Wait()

	var total int
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		total = fallbackDependencyCount
	}
	vulns := int(float64(total) * vulnerablePercentage / 100)

	return &schema.DependencyHealth{
		TotalDependencies:        total,
		OutdatedCount:            int(float64(total) * outdatedPercentage / 100),
		OutdatedPercentage:       outdatedPercentage,
		SecurityVulnerabilities:  vulns,
		CriticalVulnerabilities:  int(float64(vulns) * criticalShare),
		LicenseComplianceScore:   licenseComplianceScore,
		AverageDependencyAgeDays: averageDependencyAge,
		ManifestFiles:            manifests,
	}
}

// countDependencies returns the number of declared dependencies, or 0 when unknown.
func countDependencies(name string, content []byte) int {
	switch name {
	case "package.json":
		return countPackageJSON(content)
	case "requirements.txt":
		return countRequirementLines(content)
	case "Pipfile":
		if n, ok := countTOMLTables(content, "packages", "dev-packages"); ok {
			return n
		}
		return countRequirementLines(content)
	case "Cargo.toml":
		n, _ := countTOMLTables(content, "dependencies", "dev-dependencies", "build-dependencies")
		return n
	case "go.mod":
		return countGoModRequires(content)
	}
	return 0
}

func countPackageJSON(content []byte) int {
	var pkg struct {
		Dependencies    map[string]any `json:"dependencies"`
		DevDependencies map[string]any `json:"devDependencies"`
	}
	if err := json.Unmarshal(content, &pkg); err != nil {
		return 0
	}
	return len(pkg.Dependencies) + len(pkg.DevDependencies)
}

// countRequirementLines counts non-blank lines that are not comments.
func countRequirementLines(content []byte) int {
	var n int
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			n++
		}
	}
	return n
}

// countTOMLTables sums the keys of the named top-level tables.
func countTOMLTables(content []byte, tables ...string) (int, bool) {
	var doc map[string]any
	if err := toml.Unmarshal(content, &doc); err != nil {
		return 0, false
	}
	var n int
	for _, name := range tables {
		if t, ok := doc[name].(map[string]any); ok {
			n += len(t)
		}
	}
	return n, true
}

// countGoModRequires counts require directives, both single-line and block form.
func countGoModRequires(content []byte) int {
	var n int
	inBlock := false
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		switch {
		case line == "":
		case inBlock && line == ")":
			inBlock = false
		case inBlock:
			n++
		case strings.HasPrefix(line, "require") && strings.HasSuffix(line, "("):
			inBlock = true
		case strings.HasPrefix(line, "require "):
			n++
		}
	}
	return n
}
