package core

import (
	"strings"

	"github.com/huangsam/repovalue/core/algo"
	"github.com/huangsam/repovalue/schema"
)

// DefaultCategory labels a comparison made without a category.
const DefaultCategory = "general"

// Benchmarks describe an average open-source project.
var Benchmarks = schema.MarketBenchmarks{
	AverageStars:        150,
	AverageForks:        30,
	AverageContributors: 5,
	MedianValuation:     50_000,
}

// CompareWithMarket places repository metrics against the fixed benchmarks.
// A figure equal to the benchmark average sits at the 50th percentile.
func CompareWithMarket(metrics schema.MarketMetrics, category string) schema.MarketComparison {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	return schema.MarketComparison{
		Category:    category,
		RepoMetrics: metrics,
		Benchmarks:  Benchmarks,
		Comparison: schema.MarketPercentiles{
			StarsPercentile:    percentile(metrics.Stars, Benchmarks.AverageStars),
			ForksPercentile:    percentile(metrics.Forks, Benchmarks.AverageForks),
			ActivityPercentile: percentile(metrics.Contributors, Benchmarks.AverageContributors),
		},
	}
}

// percentile is a smooth estimate in [0,100] that grows with x.
func percentile(x, average int) int {
	if x <= 0 || average <= 0 {
		return 0
	}
	v := float64(x)
	return int(algo.Round(100*v/(v+float64(average)), 0))
}
