package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/parquet"
	"github.com/huangsam/hoursight/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteInsights prints the project by month drill-down of one developer.
func WriteInsights(insight schema.DeveloperInsight, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)
	return emit(cfg, format{
		noun:    "developer insights",
		payload: func() any { return insight },
		csv: func(w io.Writer) error {
			return writeCSVInsights(w, insight, fmtFloat)
		},
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.InsightMonths(insight))
		},
		table: func(w io.Writer) error {
			return writeInsightsTable(w, insight, cfg, fmtFloat, fmtPercent, duration)
		},
	})
}

// writeCSVInsights writes one line per project with a column per month.
func writeCSVInsights(w io.Writer, insight schema.DeveloperInsight, fmtFloat func(float64) string) error {
	header := append([]string{"developer", "project", "color"}, monthHeaders(insight.Months)...)
	header = append(header, "total_hours")
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range insight.Projects {
			record := []string{insight.User, p.Project, p.Color}
			record = append(record, monthCells(insight.Months, p.Months, fmtFloat)...)
			record = append(record, fmtFloat(p.Total))
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeInsightsTable renders the drill-down with a share column against the developer total.
func writeInsightsTable(w io.Writer, insight schema.DeveloperInsight, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string, duration time.Duration) error {
	fmt.Fprintf(w, "👤 %s: %s hours over %d months\n", insight.User, fmtFloat(insight.Total), len(insight.Months))

	table := tablewriter.NewWriter(w)
	headers := append([]string{"Project"}, monthHeaders(insight.Months)...)
	headers = append(headers, "Total", "Share")
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, len(insight.Months)+2)
	var data [][]string
	for _, p := range insight.Projects {
		record := []string{contract.TruncateName(p.Project, nameWidth)}
		record = append(record, monthCells(insight.Months, p.Months, fmtFloat)...)
		record = append(record, fmtFloat(p.Total), fmtPercent(schema.SharePercent(p.Total, insight.Total)))
		data = append(data, record)
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
