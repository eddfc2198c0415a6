package outwriter

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// sampleReport is a two-month report with two main projects and one merged project.
func sampleReport() *schema.Report {
	months := []schema.MonthKey{"2024-01", "2024-02"}
	return &schema.Report{
		Source: "hours.csv",
		Stats:  schema.DropStats{TotalRows: 6, Kept: 5, BadDate: 1},
		Bundle: schema.AggregateBundle{
			Months: months,
			ProjectTotals: map[string]schema.MonthTotals{
				"Apollo": {"2024-01": 10, "2024-02": 6},
				"Hermes": {"2024-02": 3},
				"Zeus":   {"2024-01": 1},
			},
			DeveloperTotals: map[string]schema.MonthTotals{
				"Alice Smith": {"2024-01": 8, "2024-02": 6},
				"Bob Jones":   {"2024-01": 3, "2024-02": 3},
			},
			Detail: map[string]map[string]schema.MonthTotals{
				"Alice Smith": {"Apollo": {"2024-01": 8, "2024-02": 6}},
				"Bob Jones":   {"Apollo": {"2024-01": 2}, "Hermes": {"2024-02": 3}, "Zeus": {"2024-01": 1}},
			},
		},
		Plan: schema.BucketPlan{
			MainProjects:    []string{"Apollo", "Hermes"},
			OtherProjects:   []string{"Zeus"},
			ColorAssignment: map[string]string{"Apollo": "#3b82f6", "Hermes": "#ef4444", "Zeus": schema.OthersColor},
			ProjectTotals:   map[string]float64{"Apollo": 16, "Hermes": 3, "Zeus": 1},
			TotalHoursAll:   20,
			Others: &schema.OthersBucket{
				Name:    "Others (1)",
				Months:  schema.MonthTotals{"2024-01": 1},
				Total:   1,
				Summary: []schema.OtherProjectSummary{{Name: "Zeus", Hours: 1, Percent: 5}},
			},
		},
		Developers: []schema.DeveloperTotal{
			{Name: "Alice Smith", Total: 14, Months: schema.MonthTotals{"2024-01": 8, "2024-02": 6}},
			{Name: "Bob Jones", Total: 6, Months: schema.MonthTotals{"2024-01": 3, "2024-02": 3}},
		},
	}
}

func sampleInsight() schema.DeveloperInsight {
	return schema.DeveloperInsight{
		User:   "Bob Jones",
		Total:  6,
		Months: []schema.MonthKey{"2024-01", "2024-02"},
		Projects: []schema.InsightProject{
			{Project: "Hermes", Color: "#3b82f6", Total: 3, Months: schema.MonthTotals{"2024-02": 3}},
			{Project: "Apollo", Color: "#ef4444", Total: 2, Months: schema.MonthTotals{"2024-01": 2}},
			{Project: "Zeus", Color: "#10b981", Total: 1, Months: schema.MonthTotals{"2024-01": 1}},
		},
	}
}

func testConfig(output schema.OutputMode, outputFile string) *contract.Config {
	return &contract.Config{
		Output:       output,
		OutputFile:   outputFile,
		Precision:    1,
		ResultLimit:  25,
		Width:        200,
		CacheBackend: schema.SQLiteBackend,
	}
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		columns int
		want    int
	}{
		{"wide terminal is capped", 300, 2, maxNameWidth},
		{"narrow terminal keeps a floor", 60, 12, minNameWidth},
		{"room in between", 80, 4, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.want, GetMaxTableNameWidth(cfg, tt.columns))
		})
	}
}

func TestMonthHelpers(t *testing.T) {
	months := []schema.MonthKey{"2024-01", "2024-02", "2024-03"}
	fmtFloat, _ := createFormatters(1)

	assert.Equal(t, []string{"Jan 2024", "Feb 2024", "Mar 2024"}, monthHeaders(months))
	assert.Equal(t, []string{"2.5", "", "1.0"}, monthCells(months, schema.MonthTotals{"2024-01": 2.5, "2024-03": 1}, fmtFloat))
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, fmtPercent := createFormatters(2)
	assert.Equal(t, "3.14", fmtFloat(3.14159))
	assert.Equal(t, "12.3%", fmtPercent(12.345))

	fmtFloat, _ = createFormatters(0)
	assert.Equal(t, "4", fmtFloat(3.6))
}

func TestWriteJSONAndYAML(t *testing.T) {
	data := map[string]any{"months": []string{"2024-01"}}

	var jsonBuf bytes.Buffer
	require.NoError(t, writeJSON(&jsonBuf, data))
	assert.Equal(t, "{\n  \"months\": [\n    \"2024-01\"\n  ]\n}\n", jsonBuf.String())

	var yamlBuf bytes.Buffer
	require.NoError(t, writeYAML(&yamlBuf, data))
	assert.Contains(t, yamlBuf.String(), "months:\n  - ")
	assert.Contains(t, yamlBuf.String(), "2024-01")
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}, "Wrote test output")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestWriteCSVProjects(t *testing.T) {
	report := sampleReport()
	rows := schema.EnrichProjects(report.Bundle, report.Plan)
	fmtFloat, _ := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeCSVProjects(&buf, report.Bundle.Months, rows, fmtFloat))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // header + 2 main + Others
	assert.Equal(t, "rank,project,status,color,Jan 2024,Feb 2024,total_hours,share_percent,top_developers", lines[0])
	assert.Equal(t, "1,Apollo,main,#3b82f6,10.0,6.0,16.0,80.0,Alice Smith|Bob Jones", lines[1])
	assert.Equal(t, "2,Hermes,main,#ef4444,,3.0,3.0,15.0,Bob Jones", lines[2])
	assert.Equal(t, "0,Others (1),merged,#64748b,1.0,,1.0,5.0,", lines[3])
}

func TestWriteProjectsTable(t *testing.T) {
	report := sampleReport()
	rows := schema.EnrichProjects(report.Bundle, report.Plan)
	cfg := testConfig(schema.TextOut, "")
	cfg.Owner = true
	fmtFloat, fmtPercent := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeProjectsTable(&buf, report, rows, cfg, fmtFloat, fmtPercent, 5*time.Millisecond))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "JAN 2024")
	assert.Contains(t, out, "Apollo")
	assert.Contains(t, out, "Others (1)")
	assert.Contains(t, out, "Merged")
	assert.Contains(t, out, "80.0%")
	assert.Contains(t, out, "Alice S, Bob J")
	assert.Contains(t, out, "1 dropped (1 bad date, 0 non-positive units)")
	assert.Contains(t, out, "Cache backend: sqlite")
}

func TestWriteSummaryTable(t *testing.T) {
	cfg := testConfig(schema.TextOut, "")
	cfg.NoCache = true
	fmtFloat, fmtPercent := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeSummaryTable(&buf, sampleReport(), cfg, fmtFloat, fmtPercent, time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Months:      2 (Jan 2024 .. Feb 2024)")
	assert.Contains(t, out, "Total hours: 20.0")
	assert.Contains(t, out, "Projects:    2 main, 1 merged into Others")
	assert.Contains(t, out, "Developers:  2")
	assert.Contains(t, out, "Rows:        6 read, 5 kept")
	assert.Contains(t, out, "Cache backend: disabled")
}

func TestWriteSummary_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, WriteSummary(sampleReport(), testConfig(schema.JSONOut, path), time.Millisecond))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, json.Unmarshal(content, &view))
	assert.Equal(t, "hours.csv", view["source"])
	assert.Equal(t, 20.0, view["total_hours"])
	assert.Equal(t, []any{"Apollo", "Hermes"}, view["main_projects"])
	assert.Equal(t, []any{"Zeus"}, view["other_projects"])

	stats, ok := view["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1.0, stats["dropped_bad_date"])
	assert.Len(t, view["projects"], 3)
}

func TestWriteProjects_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, WriteProjects(sampleReport(), testConfig(schema.YAMLOut, path), time.Millisecond))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var view struct {
		Months   []string `yaml:"months"`
		Projects []struct {
			Name   string  `yaml:"name"`
			Status string  `yaml:"status"`
			Total  float64 `yaml:"total"`
		} `yaml:"projects"`
	}
	require.NoError(t, yaml.Unmarshal(content, &view))
	assert.Equal(t, []string{"2024-01", "2024-02"}, view.Months)
	require.Len(t, view.Projects, 3)
	assert.Equal(t, "Apollo", view.Projects[0].Name)
	assert.Equal(t, "merged", view.Projects[2].Status)
	assert.Equal(t, 1.0, view.Projects[2].Total)
}

func TestWriteProjects_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.parquet")
	require.NoError(t, WriteProjects(sampleReport(), testConfig(schema.ParquetOut, path), time.Millisecond))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	require.NoError(t, err)
	pf, err := parquet.OpenFile(file, info.Size())
	require.NoError(t, err)
	// Apollo x2, Hermes x1, Others x1
	assert.Equal(t, int64(4), pf.NumRows())
}

func TestWriteDevelopers(t *testing.T) {
	report := sampleReport()

	t.Run("csv respects limit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "devs.csv")
		cfg := testConfig(schema.CSVOut, path)
		cfg.ResultLimit = 1
		require.NoError(t, WriteDevelopers(report, cfg, time.Millisecond))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "rank,developer,Jan 2024,Feb 2024,total_hours,share_percent", lines[0])
		assert.Equal(t, "1,Alice Smith,8.0,6.0,14.0,70.0", lines[1])
	})

	t.Run("table", func(t *testing.T) {
		fmtFloat, fmtPercent := createFormatters(1)
		rows := schema.EnrichDevelopers(report.Developers)

		var buf bytes.Buffer
		require.NoError(t, writeDevelopersTable(&buf, report.Bundle.Months, rows, len(rows), testConfig(schema.TextOut, ""), fmtFloat, fmtPercent, time.Millisecond))
		assert.Contains(t, buf.String(), "Bob Jones")
		assert.Contains(t, buf.String(), "Showing 2 of 2 developers")
	})
}

func TestWriteOthers(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVOthers(&buf, othersSummary(sampleReport()), fmtFloat))
		assert.Equal(t, "project,hours,percent\nZeus,1.0,5.0\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		report := sampleReport()
		var buf bytes.Buffer
		require.NoError(t, writeOthersTable(&buf, report, othersSummary(report), testConfig(schema.TextOut, ""), fmtFloat, time.Millisecond))
		assert.Contains(t, buf.String(), "Zeus")
		assert.Contains(t, buf.String(), "5.0%")
		assert.Contains(t, buf.String(), "Others (1): 1.0 hours across 1 projects")
	})

	t.Run("nothing merged", func(t *testing.T) {
		report := sampleReport()
		report.Plan.Others = nil
		var buf bytes.Buffer
		require.NoError(t, writeOthersTable(&buf, report, othersSummary(report), testConfig(schema.TextOut, ""), fmtFloat, time.Millisecond))
		assert.Contains(t, buf.String(), "No projects were merged into Others.")
	})

	t.Run("json without others", func(t *testing.T) {
		report := sampleReport()
		report.Plan.Others = nil
		path := filepath.Join(t.TempDir(), "others.json")
		require.NoError(t, WriteOthers(report, testConfig(schema.JSONOut, path), time.Millisecond))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"projects": []`)
	})
}

func TestWriteInsights(t *testing.T) {
	insight := sampleInsight()
	fmtFloat, fmtPercent := createFormatters(1)

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVInsights(&buf, insight, fmtFloat))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "developer,project,color,Jan 2024,Feb 2024,total_hours", lines[0])
		assert.Equal(t, "Bob Jones,Hermes,#3b82f6,,3.0,3.0", lines[1])
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeInsightsTable(&buf, insight, testConfig(schema.TextOut, ""), fmtFloat, fmtPercent, time.Millisecond))
		out := buf.String()
		assert.Contains(t, out, "Bob Jones: 6.0 hours over 2 months")
		assert.Contains(t, out, "Hermes")
		assert.Contains(t, out, "50.0%")
	})
}
