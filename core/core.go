// Package core has the dataset lifecycle, recomputation and report executors.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/hoursight/core/algo"
	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/outwriter"
	"github.com/huangsam/hoursight/schema"
)

// remoteDatasetName labels datasets fetched by the sync command.
const remoteDatasetName = "remote"

// ExecutorFunc defines the function signature for executing different report modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteSummary prints months, totals, the bucket plan and drop statistics.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := BuildReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteSummary(report, cfg, time.Since(start))
}

// ExecuteProjects prints the month by project table for main projects and the Others row.
func ExecuteProjects(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := BuildReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteProjects(report, cfg, time.Since(start))
}

// ExecuteDevelopers prints the month by developer table sorted by total hours.
func ExecuteDevelopers(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := BuildReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteDevelopers(report, cfg, time.Since(start))
}

// ExecuteOthers prints the drill-down of projects merged into the Others bucket.
func ExecuteOthers(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	report, err := BuildReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteOthers(report, cfg, time.Since(start))
}

// ExecuteInsights prints the project by month drill-down for one developer.
func ExecuteInsights(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	insight, err := BuildInsights(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteInsights(insight, cfg, time.Since(start))
}

// ExecuteSync fetches rows from the remote source, caches them and prints the summary.
// With cfg.CountOnly it only prints how many rows the source holds for the range.
func ExecuteSync(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, source contract.RowSource) error {
	start := time.Now()
	if cfg.Range.Start == "" || cfg.Range.End == "" {
		cfg = cfg.CloneWithRange(contract.FillRemoteRange(cfg.Range, start))
	}
	if cfg.CountOnly {
		n, err := source.Count(ctx, cfg.Range)
		if err != nil {
			return err
		}
		fmt.Printf("%d rows available on the remote source\n", n)
		return nil
	}

	ds, err := SyncRemote(ctx, cfg, mgr, source)
	if err != nil {
		return err
	}
	report, err := reportFromDataset(ctx, cfg, mgr, ds)
	if err != nil {
		return err
	}
	return outwriter.WriteSummary(report, cfg, time.Since(start))
}

// SyncRemote fetches the remote rows, stores them under the remote cache key and
// returns them as a Dataset. The rows are already restricted to cfg.Range by the source.
func SyncRemote(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, source contract.RowSource) (*Dataset, error) {
	rows, err := source.Fetch(ctx, cfg.Range)
	if err != nil {
		return nil, err
	}
	if limit := source.Limit(); limit > 0 && len(rows) >= limit {
		contract.LogWarn("Remote row limit reached",
			fmt.Errorf("fetched %d rows, older entries may be missing; narrow --start/--end", len(rows)))
	}

	ds, err := NewDataset(remoteDatasetName, schema.RemoteSource, rows)
	if err != nil {
		return nil, err
	}
	if store := datasetStore(cfg, mgr); store != nil {
		envelope := schema.CachedDataset{Name: remoteDatasetName, Source: schema.RemoteSource, RowCount: len(rows), Rows: rows}
		if err := storeDataset(store, RemoteCacheKey, envelope, time.Now()); err != nil {
			contract.LogWarn("Failed to cache remote rows", err)
		}
	}
	return ds, nil
}

// LoadDataset loads cfg.InputPath, or the newest cached dataset when no path is set.
func LoadDataset(cfg *contract.Config, mgr contract.CacheManager) (*Dataset, error) {
	return loadDataset(cfg, mgr)
}

// BuildReport loads the dataset and recomputes a report for cfg.Range, recording history
// when a history store is configured.
func BuildReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.Report, error) {
	ds, err := loadDataset(cfg, mgr)
	if err != nil {
		return nil, err
	}
	return reportFromDataset(ctx, cfg, mgr, ds)
}

// BuildInsights builds the developer drill-down for cfg.InsightUser.
func BuildInsights(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.DeveloperInsight, error) {
	if cfg.InsightUser == "" {
		return schema.DeveloperInsight{}, errors.New("--user is required")
	}
	report, err := BuildReport(ctx, cfg, mgr)
	if err != nil {
		return schema.DeveloperInsight{}, err
	}
	return algo.DeveloperInsights(report.Bundle.Detail, cfg.InsightUser, cfg.InsightProject)
}

// reportFromDataset runs one recomputation with history tracking around it.
func reportFromDataset(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, ds *Dataset) (*schema.Report, error) {
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut {
		logReportHeader(ds, cfg.Range)
	}

	ctx = beginRun(ctx, cfg, mgr)
	report, err := Recompute(ds, cfg.Range, cfg.Policy)
	if err != nil {
		return nil, err
	}
	recordRun(ctx, mgr, report)
	return report, nil
}

// logReportHeader prints a concise, 2-line header for each report.
func logReportHeader(ds *Dataset, r schema.MonthRange) {
	fmt.Printf("📄 Source: %s (%s, %d records)\n", ds.Name, ds.Source, len(ds.Records))
	fmt.Printf("📅 Range: %s\n", r)
}
