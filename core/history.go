package core

import (
	"context"
	"sort"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/schema"
)

// beginRun opens a history run when a history store is configured.
// The returned context carries the run ID for recordRun.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) context.Context {
	if mgr == nil {
		return ctx
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return ctx
	}
	configParams := map[string]any{
		"input":       cfg.InputPath,
		"start":       string(cfg.Range.Start),
		"end":         string(cfg.Range.End),
		"max_main":    cfg.Policy.MaxMain,
		"always_main": cfg.Policy.AlwaysMain,
		"small_share": cfg.Policy.SmallShare,
	}
	runID, err := store.BeginRun(time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Report history initialization failed", err)
		return ctx
	}
	if runID > 0 {
		ctx = withRunID(ctx, runID)
	}
	return ctx
}

// recordRun stores the per project and month totals of a report and closes the run.
func recordRun(ctx context.Context, mgr contract.CacheManager, report *schema.Report) {
	runID, ok := getRunID(ctx)
	if !ok || mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	if err := store.RecordProjectMonths(runID, projectMonthRecords(runID, report)); err != nil {
		contract.LogWarn("Failed to record project months", err)
	}

	summary := schema.RunSummary{
		Source:      report.Source,
		Range:       report.Range,
		Stats:       report.Stats,
		MonthCount:  len(report.Bundle.Months),
		TotalHours:  report.Plan.TotalHoursAll,
		MainCount:   len(report.Plan.MainProjects),
		OthersCount: len(report.Plan.OtherProjects),
	}
	if err := store.EndRun(runID, time.Now(), summary); err != nil {
		contract.LogWarn("Failed to finalize report history", err)
	}
}

// projectMonthRecords flattens project totals into history rows ordered by project then month.
func projectMonthRecords(runID int64, report *schema.Report) []schema.ProjectMonthRecord {
	projects := make([]string, 0, len(report.Bundle.ProjectTotals))
	for name := range report.Bundle.ProjectTotals {
		projects = append(projects, name)
	}
	sort.Strings(projects)

	var records []schema.ProjectMonthRecord
	for _, name := range projects {
		status := schema.OtherStatus
		if report.Plan.IsMain(name) {
			status = schema.MainStatus
		}
		months := report.Bundle.ProjectTotals[name]
		for _, month := range report.Bundle.Months {
			hours, ok := months[month]
			if !ok {
				continue
			}
			records = append(records, schema.ProjectMonthRecord{
				RunID:   runID,
				Project: name,
				Month:   string(month),
				Hours:   hours,
				Status:  string(status),
				Color:   report.Plan.ColorAssignment[name],
			})
		}
	}
	return records
}
