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

// OthersView is the JSON and YAML document of the others command.
type OthersView struct {
	Name     string                       `json:"name" yaml:"name"`
	Total    float64                      `json:"total_hours" yaml:"total_hours"`
	Months   schema.MonthTotals           `json:"months" yaml:"months"`
	Projects []schema.OtherProjectSummary `json:"projects" yaml:"projects"`
}

// othersSummary returns the drill-down lines, empty when nothing was merged.
func othersSummary(report *schema.Report) []schema.OtherProjectSummary {
	if report.Plan.Others == nil {
		return []schema.OtherProjectSummary{}
	}
	return report.Plan.Others.Summary
}

// BuildOthersView describes the Others bucket. Projects is empty when nothing was merged.
func BuildOthersView(report *schema.Report) OthersView {
	view := OthersView{Projects: othersSummary(report)}
	if others := report.Plan.Others; others != nil {
		view.Name, view.Total, view.Months = others.Name, others.Total, others.Months
	}
	return view
}

// WriteOthers prints the projects merged into the Others bucket, largest first.
func WriteOthers(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	view := BuildOthersView(report)
	summary := view.Projects
	return emit(cfg, format{
		noun:    "others report",
		payload: func() any { return view },
		csv: func(w io.Writer) error {
			return writeCSVOthers(w, summary, fmtFloat)
		},
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.OtherProjects(summary))
		},
		table: func(w io.Writer) error {
			return writeOthersTable(w, report, summary, cfg, fmtFloat, duration)
		},
	})
}

// writeCSVOthers writes one line per merged project.
func writeCSVOthers(w io.Writer, summary []schema.OtherProjectSummary, fmtFloat func(float64) string) error {
	header := []string{"project", "hours", "percent"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summary {
			if err := cw.Write([]string{s.Name, fmtFloat(s.Hours), strconv.FormatFloat(s.Percent, 'f', 1, 64)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeOthersTable renders the Others drill-down.
func writeOthersTable(w io.Writer, report *schema.Report, summary []schema.OtherProjectSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if len(summary) == 0 {
		fmt.Fprintln(w, "No projects were merged into Others.")
		writeFooter(w, cfg, duration)
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Project", "Hours", "Percent"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, 2)
	var data [][]string
	for _, s := range summary {
		data = append(data, []string{
			contract.TruncateName(s.Name, nameWidth),
			fmtFloat(s.Hours),
			fmt.Sprintf("%.1f%%", s.Percent),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	others := report.Plan.Others
	fmt.Fprintf(w, "%s: %s hours across %d projects\n", others.Name, fmtFloat(others.Total), len(summary))
	writeFooter(w, cfg, duration)
	return nil
}
