package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/parquet"
	"github.com/huangsam/hoursight/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// SummaryView is the JSON and YAML document of the summary command.
type SummaryView struct {
	Source        string              `json:"source" yaml:"source"`
	Range         schema.MonthRange   `json:"range" yaml:"range"`
	Months        []schema.MonthKey   `json:"months" yaml:"months"`
	TotalHours    float64             `json:"total_hours" yaml:"total_hours"`
	Developers    int                 `json:"developers" yaml:"developers"`
	MainProjects  []string            `json:"main_projects" yaml:"main_projects"`
	OtherProjects []string            `json:"other_projects" yaml:"other_projects"`
	Projects      []schema.ProjectRow `json:"projects" yaml:"projects"`
	Stats         schema.DropStats    `json:"stats" yaml:"stats"`
}

// BuildSummaryView collects the headline numbers of a report.
func BuildSummaryView(report *schema.Report) SummaryView {
	return SummaryView{
		Source:        report.Source,
		Range:         report.Range,
		Months:        report.Bundle.Months,
		TotalHours:    report.Plan.TotalHoursAll,
		Developers:    len(report.Developers),
		MainProjects:  report.Plan.MainProjects,
		OtherProjects: report.Plan.OtherProjects,
		Projects:      schema.EnrichProjects(report.Bundle, report.Plan),
		Stats:         report.Stats,
	}
}

// WriteSummary prints months, totals, the bucket plan and drop statistics.
func WriteSummary(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)
	return emit(cfg, format{
		noun:    "summary",
		payload: func() any { return BuildSummaryView(report) },
		csv: func(w io.Writer) error {
			return writeCSVSummary(w, report, fmtFloat)
		},
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.MonthlyTotals(report))
		},
		table: func(w io.Writer) error {
			return writeSummaryTable(w, report, cfg, fmtFloat, fmtPercent, duration)
		},
	})
}

// writeCSVSummary writes one line per project with its bucket status.
func writeCSVSummary(w io.Writer, report *schema.Report, fmtFloat func(float64) string) error {
	header := []string{"rank", "project", "status", "color", "total_hours", "share_percent"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range schema.EnrichProjects(report.Bundle, report.Plan) {
			if err := cw.Write([]string{
				strconv.Itoa(row.Rank),
				row.Name,
				string(row.Status),
				row.Color,
				fmtFloat(row.Total),
				strconv.FormatFloat(row.Share, 'f', 1, 64),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSummaryTable prints the headline numbers followed by the project totals table.
func writeSummaryTable(w io.Writer, report *schema.Report, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string, duration time.Duration) error {
	months := report.Bundle.Months
	if len(months) > 0 {
		fmt.Fprintf(w, "Months:      %d (%s .. %s)\n", len(months), months[0].Label(), months[len(months)-1].Label())
	}
	fmt.Fprintf(w, "Total hours: %s\n", fmtFloat(report.Plan.TotalHoursAll))
	fmt.Fprintf(w, "Projects:    %d main, %d merged into Others\n", len(report.Plan.MainProjects), len(report.Plan.OtherProjects))
	fmt.Fprintf(w, "Developers:  %d\n", len(report.Developers))
	writeDropStats(w, report.Stats)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Project", "Label", "Hours", "Share"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, 4)
	var data [][]string
	for _, row := range schema.EnrichProjects(report.Bundle, report.Plan) {
		rank := ""
		if row.Rank > 0 {
			rank = strconv.Itoa(row.Rank)
		}
		data = append(data, []string{
			rank,
			contract.TruncateName(row.Name, nameWidth),
			statusLabel(row.Status, cfg),
			fmtFloat(row.Total),
			fmtPercent(row.Share),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	writeFooter(w, cfg, duration)
	return nil
}

// writeDropStats prints how many rows survived normalization.
func writeDropStats(w io.Writer, stats schema.DropStats) {
	fmt.Fprintf(w, "Rows:        %d read, %d kept", stats.TotalRows, stats.Kept)
	if stats.Dropped() > 0 {
		fmt.Fprintf(w, ", %d dropped (%d bad date, %d non-positive units)", stats.Dropped(), stats.BadDate, stats.NonPositiveUnits)
	}
	fmt.Fprintln(w)
}

// statusLabel returns the bucket label, colored when the config allows it.
func statusLabel(status schema.BucketStatus, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(status)
	}
	return contract.GetPlainLabel(status)
}
