package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/repovalue/core"
	"github.com/huangsam/repovalue/internal/contract"
	"github.com/huangsam/repovalue/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds the dependencies needed by the MCP tool handlers.
// A non-nil error from a handler means the arguments were unusable; every other
// failure is reported inside the result with IsError set.
type toolHandler struct {
	svc     *core.Service
	baseCfg *contract.Config
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := h.svc.AnalyzeRepository(ctx, request.GetString("owner", ""), request.GetString("repo", ""))
	if err != nil {
		return failure(err)
	}
	return jsonResult(data, false)
}

func (h *toolHandler) handleCalculateValuation(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := repoDataArg(request)
	if err != nil {
		return nil, err
	}

	inputs := h.baseCfg.ValuationInputs(data)
	inputs.TeamSize = request.GetInt("team_size", inputs.TeamSize)
	inputs.HourlyRate = request.GetFloat("hourly_rate", inputs.HourlyRate)
	inputs.DevelopmentMonths = request.GetInt("development_months", inputs.DevelopmentMonths)
	inputs.MarketMultiplier = request.GetFloat("market_multiplier", inputs.MarketMultiplier)

	opts := core.ValuationOptions{
		Comparables:   h.baseCfg.Comparables,
		AnnualRevenue: request.GetFloat("annual_revenue", h.baseCfg.AnnualRevenue),
	}
	if _, err := objectArg(request, "comparables", &opts.Comparables); err != nil {
		return nil, err
	}
	var codebase schema.CodebaseAnalysis
	found, err := objectArg(request, "codebase_analysis", &codebase)
	if err != nil {
		return nil, err
	}
	if found {
		opts.Codebase = &codebase
	}

	method := schema.ValuationMethod(request.GetString("method", string(schema.Scorecard)))
	result, err := core.CalculateValuation(inputs, method, opts)
	if err != nil {
		return nil, err
	}
	return jsonResult(result, false)
}

func (h *toolHandler) handleCompareWithMarket(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var metrics schema.MarketMetrics
	found, err := objectArg(request, "repo_metrics", &metrics)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &schema.MissingFieldError{Field: "repo_metrics"}
	}
	if contributors := request.GetInt("contributors", 0); contributors > 0 {
		metrics.Contributors = contributors
	}
	category := request.GetString("category", h.baseCfg.Category)
	return jsonResult(core.CompareWithMarket(metrics, category), false)
}

func (h *toolHandler) handleAgentExecutor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.svc.RunAgent(ctx, request.GetString("input", ""))
	var missing *schema.MissingFieldError
	switch {
	case errors.As(err, &missing):
		return nil, err
	case errors.Is(err, core.ErrNoRepository):
		return jsonResult(core.NewAgentHint(), true)
	case err != nil:
		return failure(err)
	}
	return jsonResult(result, false)
}

func (h *toolHandler) handleAnalyzeCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := repoDataArg(request)
	if err != nil {
		return nil, err
	}
	opts, err := schema.ParseCodebaseOptions(
		request.GetString("analysis_depth", string(h.baseCfg.Codebase.Depth)),
		request.GetStringSlice("include_metrics", nil),
	)
	if err != nil {
		return nil, err
	}

	analysis, err := h.svc.AnalyzeCodebase(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	return jsonResult(analysis, !analysis.Succeeded())
}

func (h *toolHandler) handleGetPackageStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.svc.GetPackageStats(ctx,
		request.GetString("owner", ""),
		request.GetString("repo", ""),
		request.GetString("package_name", ""),
	)
	if err != nil {
		return nil, err
	}
	return jsonResult(stats, !stats.Succeeded())
}

func (h *toolHandler) handleUnicornHunter(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := repoDataArg(request)
	if err != nil {
		return nil, err
	}

	var codebase *schema.CodebaseAnalysis
	var analysis schema.CodebaseAnalysis
	found, err := objectArg(request, "codebase_analysis", &analysis)
	if err != nil {
		return nil, err
	}
	if found {
		codebase = &analysis
	}
	result := core.HuntUnicorn(data, codebase, request.GetBool("include_codebase_analysis", true))

	var stats schema.PackageStats
	if _, err := objectArg(request, "package_stats", &stats); err != nil {
		return nil, err
	}
	core.AttachAdoption(&result, stats)
	return jsonResult(result, false)
}

// objectArg decodes a JSON object or array argument into v. It reports whether the
// argument was present and non-empty.
func objectArg(request mcp.CallToolRequest, key string, v any) (bool, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return false, nil
	}
	switch t := raw.(type) {
	case map[string]any:
		if len(t) == 0 {
			return false, nil
		}
	case []any:
		if len(t) == 0 {
			return false, nil
		}
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return true, fmt.Errorf("invalid %s: %w", key, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return true, fmt.Errorf("invalid %s: %w", key, err)
	}
	return true, nil
}

// repoDataArg decodes the required repo_data argument, assuming neutral scores for omitted ones.
func repoDataArg(request mcp.CallToolRequest) (schema.RepoData, error) {
	var raw json.RawMessage
	found, err := objectArg(request, "repo_data", &raw)
	if err != nil {
		return schema.RepoData{}, err
	}
	if !found {
		return schema.RepoData{}, &schema.MissingFieldError{Field: "repo_data"}
	}
	return schema.ParseRepoData(raw)
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any, isError bool) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(jsonData))},
		IsError: isError,
	}, nil
}

// failure renders an upstream error as a failed record. Missing inputs stay argument errors.
func failure(err error) (*mcp.CallToolResult, error) {
	var missing *schema.MissingFieldError
	if errors.As(err, &missing) {
		return nil, err
	}
	return jsonResult(schema.NewFailureRecord(err), true)
}
