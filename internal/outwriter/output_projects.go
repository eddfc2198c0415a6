package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/parquet"
	"github.com/huangsam/hoursight/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ProjectsView is the JSON and YAML document of the projects command.
type ProjectsView struct {
	Months   []schema.MonthKey   `json:"months" yaml:"months"`
	Projects []schema.ProjectRow `json:"projects" yaml:"projects"`
	Stats    schema.DropStats    `json:"stats" yaml:"stats"`
}

// BuildProjectsView lists main projects in rank order followed by the Others row.
func BuildProjectsView(report *schema.Report) ProjectsView {
	return ProjectsView{
		Months:   report.Bundle.Months,
		Projects: schema.EnrichProjects(report.Bundle, report.Plan),
		Stats:    report.Stats,
	}
}

// WriteProjects prints the month by project table: main projects in rank order,
// then the merged Others row.
func WriteProjects(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)
	view := BuildProjectsView(report)
	rows := view.Projects
	return emit(cfg, format{
		noun:    "project report",
		payload: func() any { return view },
		csv: func(w io.Writer) error {
			return writeCSVProjects(w, report.Bundle.Months, rows, fmtFloat)
		},
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.MonthlyTotals(report))
		},
		table: func(w io.Writer) error {
			return writeProjectsTable(w, report, rows, cfg, fmtFloat, fmtPercent, duration)
		},
	})
}

// writeCSVProjects writes one line per project with a column per month.
func writeCSVProjects(w io.Writer, months []schema.MonthKey, rows []schema.ProjectRow, fmtFloat func(float64) string) error {
	header := append([]string{"rank", "project", "status", "color"}, monthHeaders(months)...)
	header = append(header, "total_hours", "share_percent", "top_developers")
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range rows {
			record := []string{strconv.Itoa(row.Rank), row.Name, string(row.Status), row.Color}
			record = append(record, monthCells(months, row.Months, fmtFloat)...)
			record = append(record,
				fmtFloat(row.Total),
				strconv.FormatFloat(row.Share, 'f', 1, 64),
				strings.Join(row.Owners, "|"),
			)
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeProjectsTable renders the month by project matrix with a totals column.
func writeProjectsTable(w io.Writer, report *schema.Report, rows []schema.ProjectRow, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string, duration time.Duration) error {
	months := report.Bundle.Months
	table := tablewriter.NewWriter(w)

	headers := append([]string{"Project", "Label"}, monthHeaders(months)...)
	headers = append(headers, "Total", "Share")
	if cfg.Owner {
		headers = append(headers, "Top Developers")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, len(months)+3)
	var data [][]string
	for _, row := range rows {
		record := []string{
			contract.TruncateName(row.Name, nameWidth),
			statusLabel(row.Status, cfg),
		}
		record = append(record, monthCells(months, row.Months, fmtFloat)...)
		record = append(record, fmtFloat(row.Total), fmtPercent(row.Share))
		if cfg.Owner {
			record = append(record, schema.FormatDevelopers(row.Owners))
		}
		data = append(data, record)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	writeDropStats(w, report.Stats)
	writeFooter(w, cfg, duration)
	return nil
}
