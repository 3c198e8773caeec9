package core

import (
	"fmt"

	"github.com/huangsam/repovalue/core/algo"
	"github.com/huangsam/repovalue/schema"
)

// ValuationOptions carries the method-specific extras of a valuation.
type ValuationOptions struct {
	Comparables   []schema.Comparable      // market_based
	AnnualRevenue float64                  // income_based
	Codebase      *schema.CodebaseAnalysis // unicorn_hunter
}

// CalculateValuation runs one valuation method. An empty method means scorecard.
func CalculateValuation(inputs schema.ValuationInputs, method schema.ValuationMethod, opts ValuationOptions) (schema.ValuationResult, error) {
	if method == "" {
		method = schema.Scorecard
	}
	if err := inputs.Validate(); err != nil {
		return schema.ValuationResult{}, err
	}

	result := schema.ValuationResult{Method: method}
	switch method {
	case schema.CostBased:
		result.Simple = simpleValuation(method, algo.CostBased(inputs))
	case schema.MarketBased:
		result.Simple = simpleValuation(method, algo.MarketBased(inputs, opts.Comparables))
	case schema.Scorecard:
		sc := algo.ScorecardValuation(inputs.RepoData)
		result.Scorecard = &sc
	case schema.IncomeBased:
		income := algo.IncomeBased(inputs, opts.AnnualRevenue)
		result.Income = &income
	case schema.UnicornHunter:
		unicorn := algo.HuntUnicorn(inputs.RepoData, opts.Codebase)
		result.Unicorn = &unicorn
	default:
		return schema.ValuationResult{}, fmt.Errorf("unknown valuation method: %s", method)
	}
	return result, nil
}

func simpleValuation(method schema.ValuationMethod, value float64) *schema.MethodValuation {
	return &schema.MethodValuation{
		Method:    method,
		Valuation: algo.Round(value, 2),
		Currency:  schema.Currency,
	}
}
