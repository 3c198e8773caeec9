// Package main measures repovalue command latency with and without the response cache.
// Each command runs several times against the live GitHub API: the no-cache phase is
// averaged, the first cached run is reported as cold and the rest are averaged as warm.
//
// Prerequisites:
// - repovalue binary installed and available in PATH
// - GITHUB_TOKEN set, or the runs will quickly hit the anonymous rate limit
//
// Usage: go run benchmark/main.go [owner/repo ...]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/olekukonko/tablewriter"
)

// BenchmarkResult holds the timings of one command (no-cache average, cold run, warm average).
type BenchmarkResult struct {
	Command     string
	Description string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkCase is one command line to time.
type BenchmarkCase struct {
	Name        string
	Description string
	Args        []string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	CacheTTL    string
	Repos       []string
}

var defaultRepos = []string{"spf13/cobra", "spf13/viper", "stretchr/testify", "fatih/color"}

func main() {
	repos := defaultRepos
	if len(os.Args) > 1 {
		repos = os.Args[1:]
	}

	config := BenchmarkConfig{
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		CacheTTL:    "1h",
		Repos:       repos,
	}

	if _, err := exec.LookPath("repovalue"); err != nil {
		fmt.Printf("Prerequisites check failed: repovalue binary not found in PATH\n")
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("repovalue", "cache", "clear", "--cache-backend", "sqlite")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config, benchmarkCases(config.Repos))

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// benchmarkCases lists the command lines timed for a set of repositories.
func benchmarkCases(repos []string) []BenchmarkCase {
	first := repos[0]
	return []BenchmarkCase{
		{Name: "analyze", Description: "analyze " + first, Args: []string{"analyze", first}},
		{Name: "value", Description: "scorecard valuation of " + first, Args: []string{"value", first}},
		{Name: "unicorn", Description: "unicorn with codebase for " + first, Args: []string{"unicorn", first, "--with-codebase"}},
		{Name: "rank", Description: fmt.Sprintf("rank %d repositories", len(repos)), Args: append([]string{"rank"}, repos...)},
	}
}

// runBenchmarks times every case in both phases.
func runBenchmarks(config BenchmarkConfig, cases []BenchmarkCase) []BenchmarkResult {
	fmt.Printf("Starting benchmark: %d commands, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(cases), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	results := make([]BenchmarkResult, 0, len(cases))
	for _, c := range cases {
		results = append(results, runBenchmarkSuite(config, c))
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for a case.
func runBenchmarkSuite(config BenchmarkConfig, c BenchmarkCase) BenchmarkResult {
	fmt.Printf("Running %s\n", c.Description)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, c.Args, cacheBackend, numRuns)
		return cold, formatAverage(times)
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "FAILED"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Command:     c.Name,
		Description: c.Description,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark runs a command numRuns times and returns the first successful time and the rest.
func runBenchmark(config BenchmarkConfig, args []string, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	full := append(append([]string{}, args...), "--cache-backend", cacheBackend, "--cache-ttl", config.CacheTTL, "--output", "json")

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "repovalue", full...).Output()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && len(output) > 0 {
			times = append(times, elapsed)
			continue
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Printf("    run failed: %s\n", string(exitErr.Stderr))
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// formatAverage renders the mean of times, or FAILED when nothing succeeded.
func formatAverage(times []float64) string {
	if len(times) == 0 {
		return "FAILED"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/repovalue_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"cmd", "description", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Command, result.Description, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results as a table.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Command", "Description", "No-cache", "Cold", "Warm"})
	data := make([][]string, 0, len(results))
	for _, r := range results {
		data = append(data, []string{r.Command, r.Description, r.NoCacheTime, r.ColdTime, r.WarmTime})
	}
	if err := table.Bulk(data); err != nil {
		fmt.Printf("Failed to render summary: %v\n", err)
		return
	}
	if err := table.Render(); err != nil {
		fmt.Printf("Failed to render summary: %v\n", err)
	}
}
