package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/repovalue/schema"
	"github.com/sourcegraph/conc"
)

// ErrNoRepository is returned when a query names no owner/repo pair.
var ErrNoRepository = errors.New("Could not extract repository information from query")

// Agent suggestion and hint texts.
const (
	agentSuggestion = "Repository analyzed. Use 'unicorn_hunter' for unicorn scores or 'calculate_valuation' for detailed valuations."
	agentHint       = "Please provide repository in format 'owner/repo' (e.g., 'langchain-ai/langchain')"
)

// AgentExampleQueries are shown when a query names no repository.
var AgentExampleQueries = []string{
	"what's the unicorn score for langchain-ai/langchain?",
	"analyze mcpmessenger/slashmcp",
	"calculate valuation of owner/repo using unicorn_hunter",
}

// repoPatterns are tried in order against the lowercased query.
var repoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`github\.com/([a-z0-9](?:-?[a-z0-9]){0,38})/([a-z0-9_.-]+)`),
	regexp.MustCompile(`([a-z0-9](?:-?[a-z0-9]){0,38})/([a-z0-9](?:-?[a-z0-9]){0,100})`),
	regexp.MustCompile(`repository\s+([a-z0-9_-]+)/([a-z0-9_-]+)`),
	regexp.MustCompile(`repo\s+([a-z0-9_-]+)/([a-z0-9_-]+)`),
}

// Intent keywords.
var (
	unicornKeywords   = []string{"unicorn"}
	valuationKeywords = []string{"valuation", "value", "worth", "price"}
	codebaseKeywords  = []string{"deep", "codebase", "code"}
)

// NewAgentHint is the reply to a query without a repository.
func NewAgentHint() schema.AgentHint {
	return schema.AgentHint{
		Error:          ErrNoRepository.Error(),
		Hint:           agentHint,
		ExampleQueries: append([]string(nil), AgentExampleQueries...),
	}
}

// ExtractRepository finds the first owner/repo pair in a query.
func ExtractRepository(query string) (owner, repo string, ok bool) {
	q := strings.ToLower(query)
	for _, p := range repoPatterns {
		if m := p.FindStringSubmatch(q); m != nil {
			return m[1], strings.TrimSuffix(strings.TrimRight(m[2], "."), ".git"), true
		}
	}
	return "", "", false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// valuationMethodFor picks the method a valuation query asks for.
func valuationMethodFor(q string) schema.ValuationMethod {
	switch {
	case strings.Contains(q, "cost"):
		return schema.CostBased
	case strings.Contains(q, "market"):
		return schema.MarketBased
	case strings.Contains(q, "income"), strings.Contains(q, "revenue"):
		return schema.IncomeBased
	default:
		return schema.Scorecard
	}
}

// RunAgent answers a natural-language query: it finds the repository, analyzes it,
// and then routes by intent to the unicorn hunter, a valuation method or a suggestion.
func (s *Service) RunAgent(ctx context.Context, query string) (*schema.AgentResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &schema.MissingFieldError{Field: "input"}
	}
	owner, repo, ok := ExtractRepository(query)
	if !ok {
		return nil, ErrNoRepository
	}

	data, err := s.repos.AnalyzeRepository(ctx, owner, repo)
	if err != nil {
		if errors.Is(err, schema.ErrRepositoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("Failed to analyze repository: %w", err)
	}

	result := &schema.AgentResult{
		Repository: owner + "/" + repo,
		Analysis:   data,
	}
	q := strings.ToLower(query)
	switch {
	case containsAny(q, unicornKeywords):
		s.agentUnicorn(ctx, owner, repo, containsAny(q, codebaseKeywords), result)
	case containsAny(q, valuationKeywords):
		valuation, err := CalculateValuation(schema.NewValuationInputs(data), valuationMethodFor(q), ValuationOptions{})
		if err != nil {
			return nil, err
		}
		result.Valuation = &valuation
	default:
		result.Suggestion = agentSuggestion
	}
	return result, nil
}

// agentUnicorn fetches package stats and, when asked, a codebase estimate side by side,
// then runs the unicorn hunter with whatever succeeded.
func (s *Service) agentUnicorn(ctx context.Context, owner, repo string, withCodebase bool, result *schema.AgentResult) {
	var stats schema.PackageStats
	var codebase *schema.CodebaseAnalysis

	var wg conc.WaitGroup
	if s.packages != nil {
		wg.Go(func() { stats = s.packages.GetPackageStats(ctx, owner, repo, "") })
	}
	if withCodebase && s.codebase != nil {
		wg.Go(func() {
			codebase = s.codebase.AnalyzeCodebase(ctx, owner, repo, schema.DefaultCodebaseOptions())
		})
	}
	wg.Wait()

	if !codebase.Succeeded() {
		codebase = nil
	}
	unicorn := HuntUnicorn(result.Analysis, codebase, true)
	result.CodebaseAnalysis = unicorn.CodebaseAnalysis

	summary := fmt.Sprintf("🦄 Unicorn Score: %s/100 - %s", formatOneDecimal(unicorn.UnicornScore), unicorn.Status)
	if stats.Succeeded() {
		adoption := AttachAdoption(&unicorn, stats)
		result.PackageStats = &stats
		result.EcosystemAdoptionScore = &adoption
		summary += fmt.Sprintf(" | 📦 %s Adoption: %s/100", strings.ToUpper(string(stats.PackageManager)), formatOneDecimal(adoption))
	}
	result.Summary = summary
	result.UnicornHunter = &unicorn
}

func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
