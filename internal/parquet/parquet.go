// Package parquet provides record types and writers for exporting hoursight
// reports and report history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/hoursight/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun represents a single report run with metadata.
// This struct maps to the hoursight_report_runs database table.
type ReportRun struct {
	// RunID is the unique identifier for this report run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// Source is the dataset name: a file base name or "remote"
	Source string `parquet:"source,snappy"`

	// RangeStart and RangeEnd are the month bounds of the run (nullable when open)
	RangeStart *string `parquet:"range_start,optional,snappy"`
	RangeEnd   *string `parquet:"range_end,optional,snappy"`

	RecordsKept int32   `parquet:"records_kept,snappy"`
	RowsDropped int32   `parquet:"rows_dropped,snappy"`
	TotalHours  float64 `parquet:"total_hours,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ProjectMonth is one project's total for one month inside a report run.
// This struct maps to the hoursight_project_months database table.
type ProjectMonth struct {
	RunID   int64   `parquet:"run_id,snappy"`
	Project string  `parquet:"project,snappy"`
	Month   string  `parquet:"month,snappy"`
	Hours   float64 `parquet:"hours,snappy"`
	Status  string  `parquet:"status,snappy"`
	Color   string  `parquet:"color,snappy"`
}

// MonthlyTotal is one row of a project report: hours of one project in one month.
type MonthlyTotal struct {
	Month   string  `parquet:"month,snappy"`
	Label   string  `parquet:"label,snappy"`
	Project string  `parquet:"project,snappy"`
	Hours   float64 `parquet:"hours,snappy"`
	Status  string  `parquet:"status,snappy"`
	Color   string  `parquet:"color,snappy"`
}

// DeveloperMonthly is one row of a developer report: hours of one developer in one month.
type DeveloperMonthly struct {
	Month     string  `parquet:"month,snappy"`
	Label     string  `parquet:"label,snappy"`
	Developer string  `parquet:"developer,snappy"`
	Hours     float64 `parquet:"hours,snappy"`
}

// OtherProject is one project folded into the Others bucket.
type OtherProject struct {
	Name    string  `parquet:"name,snappy"`
	Hours   float64 `parquet:"hours,snappy"`
	Percent float64 `parquet:"percent,snappy"`
}

// InsightMonth is one developer's hours on one project in one month.
type InsightMonth struct {
	Developer string  `parquet:"developer,snappy"`
	Project   string  `parquet:"project,snappy"`
	Month     string  `parquet:"month,snappy"`
	Label     string  `parquet:"label,snappy"`
	Hours     float64 `parquet:"hours,snappy"`
}

// Write encodes rows as a Parquet stream on w.
func Write[T any](w io.Writer, data []T) error {
	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteReportRunsParquet writes report runs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteProjectMonthsParquet writes project month totals to a Parquet file.
func WriteProjectMonthsParquet(data []ProjectMonth, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertReportRunRecords converts schema.ReportRunRecord to ReportRun for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Source:        record.Source,
			RangeStart:    record.RangeStart,
			RangeEnd:      record.RangeEnd,
			RecordsKept:   record.RecordsKept,
			RowsDropped:   record.RowsDropped,
			TotalHours:    record.TotalHours,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertProjectMonthRecords converts schema.ProjectMonthRecord to ProjectMonth for Parquet export.
func ConvertProjectMonthRecords(records []schema.ProjectMonthRecord) []ProjectMonth {
	result := make([]ProjectMonth, len(records))
	for i, record := range records {
		result[i] = ProjectMonth(record)
	}
	return result
}

// MonthlyTotals flattens a report into one row per month and main project,
// followed by the merged Others bucket when present. Zero cells are omitted.
func MonthlyTotals(report *schema.Report) []MonthlyTotal {
	var result []MonthlyTotal
	for _, month := range report.Bundle.Months {
		for _, project := range report.Plan.MainProjects {
			hours := report.Bundle.ProjectTotals[project][month]
			if hours == 0 {
				continue
			}
			result = append(result, MonthlyTotal{
				Month:   string(month),
				Label:   month.Label(),
				Project: project,
				Hours:   hours,
				Status:  string(schema.MainStatus),
				Color:   report.Plan.ColorAssignment[project],
			})
		}
		if others := report.Plan.Others; others != nil {
			if hours := others.Months[month]; hours != 0 {
				result = append(result, MonthlyTotal{
					Month:   string(month),
					Label:   month.Label(),
					Project: others.Name,
					Hours:   hours,
					Status:  string(schema.MergedStatus),
					Color:   schema.OthersColor,
				})
			}
		}
	}
	return result
}

// DeveloperMonthlies flattens developer totals into one row per month and developer.
func DeveloperMonthlies(months []schema.MonthKey, devs []schema.DeveloperTotal) []DeveloperMonthly {
	var result []DeveloperMonthly
	for _, month := range months {
		for _, dev := range devs {
			hours := dev.Months[month]
			if hours == 0 {
				continue
			}
			result = append(result, DeveloperMonthly{
				Month:     string(month),
				Label:     month.Label(),
				Developer: dev.Name,
				Hours:     hours,
			})
		}
	}
	return result
}

// OtherProjects converts the Others drill-down for Parquet export.
func OtherProjects(summary []schema.OtherProjectSummary) []OtherProject {
	result := make([]OtherProject, len(summary))
	for i, s := range summary {
		result[i] = OtherProject(s)
	}
	return result
}

// InsightMonths flattens a developer drill-down into one row per project and month.
func InsightMonths(insight schema.DeveloperInsight) []InsightMonth {
	var result []InsightMonth
	for _, p := range insight.Projects {
		for _, month := range insight.Months {
			hours := p.Months[month]
			if hours == 0 {
				continue
			}
			result = append(result, InsightMonth{
				Developer: insight.User,
				Project:   p.Project,
				Month:     string(month),
				Label:     month.Label(),
				Hours:     hours,
			})
		}
	}
	return result
}
