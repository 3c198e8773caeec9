package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	AnalyzeRepositoryTool  = "analyze_github_repository"
	CalculateValuationTool = "calculate_valuation"
	CompareWithMarketTool  = "compare_with_market"
	AgentExecutorTool      = "agent_executor"
	AnalyzeCodebaseTool    = "analyze_codebase"
	GetPackageStatsTool    = "get_package_stats"
	UnicornHunterTool      = "unicorn_hunter"
)

var valuationMethods = []string{"cost_based", "market_based", "scorecard", "income_based", "unicorn_hunter"}

var metricCategories = []string{"complexity", "quality", "tests", "dependencies", "architecture", "documentation", "technology", "all"}

// declareTools builds the tool list in manifest order.
func declareTools(h *toolHandler) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool(AnalyzeRepositoryTool,
				mcp.WithDescription("ALWAYS USE THIS FIRST when analyzing a repository. Comprehensive analysis of a GitHub repository including metrics, scores, and development activity. Extract owner and repo from user queries like 'analyze owner/repo' or 'what's the valuation of owner/repo'. Returns repo_data needed for other tools."),
				mcp.WithString("owner", mcp.Description("GitHub repository owner (e.g., 'langchain-ai' from 'langchain-ai/langchain')"), mcp.Required()),
				mcp.WithString("repo", mcp.Description("GitHub repository name (e.g., 'langchain' from 'langchain-ai/langchain')"), mcp.Required()),
			),
			Handler: h.handleAnalyzeRepository,
		},
		{
			Tool: mcp.NewTool(CalculateValuationTool,
				mcp.WithDescription("Calculate repository valuation using multiple methodologies. REQUIRES repo_data from analyze_github_repository. Use 'unicorn_hunter' method when users ask for 'unicorn score' or 'unicorn valuation'."),
				mcp.WithObject("repo_data", mcp.Description("Repository analysis data from analyze_github_repository tool - MUST call analyze_github_repository first"), mcp.Required()),
				mcp.WithString("method", mcp.Description("Valuation methodology. Use 'unicorn_hunter' for unicorn scores, 'scorecard' for general valuation ranges"), mcp.Enum(valuationMethods...)),
				mcp.WithNumber("team_size", mcp.Description("Development team size (optional, default: 1)")),
				mcp.WithNumber("hourly_rate", mcp.Description("Hourly development rate (optional, default: 100.0)")),
				mcp.WithNumber("development_months", mcp.Description("Development duration in months (optional, default: 6)")),
				mcp.WithNumber("market_multiplier", mcp.Description("Market multiplier (optional, default: 10.0)")),
				mcp.WithNumber("annual_revenue", mcp.Description("Known annual revenue for income_based (optional, estimated from stars when absent)")),
				mcp.WithArray("comparables", mcp.Description("Comparable projects for market_based, each {name, value, stars} (optional)"),
					mcp.Items(map[string]any{"type": "object"})),
				mcp.WithObject("codebase_analysis", mcp.Description("Optional codebase analysis from analyze_codebase tool, used by unicorn_hunter")),
			),
			Handler: h.handleCalculateValuation,
		},
		{
			Tool: mcp.NewTool(CompareWithMarketTool,
				mcp.WithDescription("Compare repository with market benchmarks and similar projects. Requires repo_metrics from analyze_github_repository. Pass development.contributors as contributors (inside repo_metrics or as its own argument) for the activity percentile."),
				mcp.WithObject("repo_metrics", mcp.Description("Repository metrics from analyze_github_repository tool (stars, forks, watchers, open_issues, optional contributors)"), mcp.Required()),
				mcp.WithNumber("contributors", mcp.Description("Contributor count from repo_data.development.contributors (optional, overrides repo_metrics.contributors)")),
				mcp.WithString("category", mcp.Description("Project category (e.g., 'mcp-server', 'langchain', optional)")),
			),
			Handler: h.handleCompareWithMarket,
		},
		{
			Tool: mcp.NewTool(AgentExecutorTool,
				mcp.WithDescription("Intelligent agent that handles natural language queries about repository valuation. Automatically extracts repository info and chains tool calls. Use this for queries like 'what's the unicorn score for owner/repo?' or 'analyze owner/repo'. This tool will automatically call analyze_github_repository and other tools as needed."),
				mcp.WithString("input", mcp.Description("Natural language query about repository valuation, analysis, or unicorn scores. Examples: 'what's the unicorn score for langchain-ai/langchain?', 'analyze mcpmessenger/slashmcp', 'calculate valuation of owner/repo using unicorn_hunter'"), mcp.Required()),
			),
			Handler: h.handleAgentExecutor,
		},
		{
			Tool: mcp.NewTool(AnalyzeCodebaseTool,
				mcp.WithDescription("Analyze codebase quality, complexity, architecture, dependencies, and documentation. Scores are heuristic estimates from the repository's root listing and dependency manifests. REQUIRES repo_data from analyze_github_repository."),
				mcp.WithObject("repo_data", mcp.Description("Repository data from analyze_github_repository tool"), mcp.Required()),
				mcp.WithString("analysis_depth", mcp.Description("Depth of analysis - quick, standard or deep"), mcp.Enum("quick", "standard", "deep"), mcp.DefaultString("standard")),
				mcp.WithArray("include_metrics", mcp.Description("Which analysis categories to include (default: all)"),
					mcp.Items(map[string]any{"type": "string", "enum": metricCategories})),
			),
			Handler: h.handleAnalyzeCodebase,
		},
		{
			Tool: mcp.NewTool(GetPackageStatsTool,
				mcp.WithDescription("Get package download statistics from npm, PyPI, or Cargo registries. Provides ecosystem adoption metrics beyond GitHub stars. Automatically detects package manager and fetches download stats."),
				mcp.WithString("owner", mcp.Description("GitHub repository owner"), mcp.Required()),
				mcp.WithString("repo", mcp.Description("GitHub repository name"), mcp.Required()),
				mcp.WithString("package_name", mcp.Description("Optional explicit package name (if different from repo name)")),
			),
			Handler: h.handleGetPackageStats,
		},
		{
			Tool: mcp.NewTool(UnicornHunterTool,
				mcp.WithDescription("🦄 Unicorn Hunter: Calculate speculative valuation ranges with $1B maximum. Returns unicorn score (0-100) and speculative valuation estimates. Enhanced with codebase analysis and package stats when available. USE THIS when users ask for 'unicorn score', 'unicorn valuation', or 'what's the unicorn potential'. REQUIRES repo_data from analyze_github_repository - MUST call analyze_github_repository first. Optionally accepts codebase_analysis and package_stats for enhanced scoring."),
				mcp.WithObject("repo_data", mcp.Description("Repository analysis data from analyze_github_repository tool - MUST call analyze_github_repository first to get this data"), mcp.Required()),
				mcp.WithObject("codebase_analysis", mcp.Description("Optional codebase analysis from analyze_codebase tool for enhanced scoring")),
				mcp.WithObject("package_stats", mcp.Description("Optional package stats from get_package_stats tool for an ecosystem adoption score")),
				mcp.WithBoolean("include_codebase_analysis", mcp.Description("Whether to include codebase analysis in valuation (if codebase_analysis provided)"), mcp.DefaultBool(true)),
			),
			Handler: h.handleUnicornHunter,
		},
	}
}
