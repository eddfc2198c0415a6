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

// DevelopersView is the JSON and YAML document of the developers command.
type DevelopersView struct {
	Months     []schema.MonthKey     `json:"months" yaml:"months"`
	Developers []schema.DeveloperRow `json:"developers" yaml:"developers"`
	Total      int                   `json:"total_developers" yaml:"total_developers"`
}

// BuildDevelopersView ranks developers by total hours, keeping at most limit rows
// when limit is positive.
func BuildDevelopersView(report *schema.Report, limit int) DevelopersView {
	rows := schema.EnrichDevelopers(report.Developers)
	shown := rows
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	return DevelopersView{Months: report.Bundle.Months, Developers: shown, Total: len(rows)}
}

// WriteDevelopers prints the month by developer table, highest total first,
// capped at cfg.ResultLimit rows.
func WriteDevelopers(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)
	view := BuildDevelopersView(report, cfg.ResultLimit)
	shown, months := view.Developers, view.Months

	return emit(cfg, format{
		noun:    "developer report",
		payload: func() any { return view },
		csv: func(w io.Writer) error {
			return writeCSVDevelopers(w, months, shown, fmtFloat)
		},
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.DeveloperMonthlies(months, report.Developers))
		},
		table: func(w io.Writer) error {
			return writeDevelopersTable(w, months, shown, view.Total, cfg, fmtFloat, fmtPercent, duration)
		},
	})
}

// writeCSVDevelopers writes one line per developer with a column per month.
func writeCSVDevelopers(w io.Writer, months []schema.MonthKey, rows []schema.DeveloperRow, fmtFloat func(float64) string) error {
	header := append([]string{"rank", "developer"}, monthHeaders(months)...)
	header = append(header, "total_hours", "share_percent")
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range rows {
			record := []string{strconv.Itoa(row.Rank), row.Name}
			record = append(record, monthCells(months, row.Months, fmtFloat)...)
			record = append(record, fmtFloat(row.Total), strconv.FormatFloat(row.Share, 'f', 1, 64))
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeDevelopersTable renders the month by developer matrix.
func writeDevelopersTable(w io.Writer, months []schema.MonthKey, rows []schema.DeveloperRow, total int, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	headers := append([]string{"Rank", "Developer"}, monthHeaders(months)...)
	headers = append(headers, "Total", "Share")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, len(months)+3)
	var data [][]string
	for _, row := range rows {
		record := []string{strconv.Itoa(row.Rank), contract.TruncateName(row.Name, nameWidth)}
		record = append(record, monthCells(months, row.Months, fmtFloat)...)
		record = append(record, fmtFloat(row.Total), fmtPercent(row.Share))
		data = append(data, record)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Showing %d of %d developers\n", len(rows), total)
	writeFooter(w, cfg, duration)
	return nil
}
