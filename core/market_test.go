package core

import (
	"testing"

	"github.com/huangsam/repovalue/schema"
	"github.com/stretchr/testify/assert"
)

func TestCompareWithMarket(t *testing.T) {
	metrics := schema.MarketMetrics{
		RepositoryMetrics: schema.RepositoryMetrics{Stars: 450, Forks: 90},
		Contributors:      15,
	}

	got := CompareWithMarket(metrics, "mcp-server")
	assert.Equal(t, "mcp-server", got.Category)
	assert.Equal(t, metrics, got.RepoMetrics)
	assert.Equal(t, schema.MarketBenchmarks{AverageStars: 150, AverageForks: 30, AverageContributors: 5, MedianValuation: 50000}, got.Benchmarks)
	assert.Equal(t, schema.MarketPercentiles{StarsPercentile: 75, ForksPercentile: 75, ActivityPercentile: 75}, got.Comparison)

	average := CompareWithMarket(schema.MarketMetrics{RepositoryMetrics: schema.RepositoryMetrics{Stars: 150, Forks: 30}, Contributors: 5}, " ")
	assert.Equal(t, DefaultCategory, average.Category)
	assert.Equal(t, schema.MarketPercentiles{StarsPercentile: 50, ForksPercentile: 50, ActivityPercentile: 50}, average.Comparison)
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		x, avg   int
		expected int
	}{
		{0, 150, 0},
		{-5, 150, 0},
		{10, 0, 0},
		{50, 150, 25},
		{1350, 150, 90},
		{1_000_000_000, 150, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, percentile(tt.x, tt.avg), "x=%d avg=%d", tt.x, tt.avg)
	}
}

func TestPercentileMonotone(t *testing.T) {
	prev := 0
	for x := 0; x <= 5000; x += 7 {
		p := percentile(x, Benchmarks.AverageStars)
		assert.GreaterOrEqual(t, p, prev)
		assert.LessOrEqual(t, p, 100)
		prev = p
	}
}
