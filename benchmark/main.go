// Package main provides a performance benchmarking tool for the Hoursight CLI.
// It generates synthetic timesheets of increasing size and measures report times,
// running each command multiple times, treating the first successful cached run as cold
// and averaging the rest as warm, then writes a CSV for performance tracking.
//
// Prerequisites:
// - hoursight binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where generated timesheets are written
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	RowCounts   []int
	Commands    []string
	Projects    int
	Developers  int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		RowCounts:   []int{1_000, 10_000, 100_000},
		Commands:    []string{"summary", "projects", "developers", "others"},
		Projects:    40,
		Developers:  25,
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("hoursight", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the hoursight binary exists and the work dir is usable.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("hoursight"); err != nil {
		return fmt.Errorf("hoursight binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateTimesheet writes a deterministic timesheet with rows spread over two years.
func generateTimesheet(config BenchmarkConfig, rows int) (string, error) {
	path := filepath.Join(config.WorkDir, fmt.Sprintf("timesheet_%d.csv", rows))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", path, closeErr)
		}
	}()

	rng := rand.New(rand.NewSource(int64(rows)))
	base := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Date spent", "User", "Units", "Project"}); err != nil {
		return "", err
	}
	for i := 0; i < rows; i++ {
		// Skewed project choice so the Others bucket is exercised.
		project := int(float64(config.Projects) * rng.Float64() * rng.Float64())
		record := []string{
			base.AddDate(0, 0, rng.Intn(730)).Format("2006-01-02"),
			fmt.Sprintf("Developer %02d", rng.Intn(config.Developers)),
			strconv.FormatFloat(float64(1+rng.Intn(16))/2, 'f', 1, 64),
			fmt.Sprintf("Project %02d", project),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return path, writer.Error()
}

// runBenchmarks executes every command against every generated timesheet.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.RowCounts), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, rows := range config.RowCounts {
		path, err := generateTimesheet(config, rows)
		if err != nil {
			return nil, fmt.Errorf("generate %d rows: %w", rows, err)
		}
		dataset := filepath.Base(path)
		fmt.Printf("Benchmarking %s\n", dataset)
		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, dataset, path, command))
		}
	}
	return results, nil
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command.
func runBenchmarkSuite(config BenchmarkConfig, dataset, path, command string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	runPhase := func(noCache bool, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, command, noCache, numRuns)
		if len(times) == 0 {
			return cold, "TIMEOUT"
		}
		return cold, fmt.Sprintf("%.3fs", lo.Sum(times)/float64(len(times)))
	}

	_, noCacheAvg := runPhase(true, config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase(false, config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a hoursight command multiple times and returns cold time and warm times.
// Without a cache every run is returned as a warm time.
func runBenchmark(config BenchmarkConfig, path, command string, noCache bool, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, path}
	if noCache {
		args = append(args, "--no-cache")
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("hoursight", args...)
		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if noCache || len(times) == 0 {
		return 0, times
	}
	return times[0], times[1:]
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Report computed in")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/hoursight_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final results grouped by command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range lo.Filter(results, func(r BenchmarkResult, _ int) bool { return r.Command == command }) {
			fmt.Printf("  %-24s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
		}
	}
}
