package decode

import (
	"bytes"
	"errors"
	"testing"

	"github.com/huangsam/hoursight/core/normalize"
	"github.com/huangsam/hoursight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecodeFile_CSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFDate spent,User,Units,Project\n" +
		"2024-01-15,Alice,4,Apollo\n" +
		",,,\n" +
		"45306,Bob,2.5,Gemini\n")

	rows, err := DecodeFile("hours.CSV", data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"Date spent", "User", "Units", "Project"}, rows[0].Names())
	v, ok := rows[0].Get("Date spent")
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", v)
	v, _ = rows[0].Get("Units")
	assert.Equal(t, "4", v)
	v, _ = rows[1].Get("Date spent")
	assert.Equal(t, "45306", v)

	records, _, err := normalize.Normalize(rows)
	require.NoError(t, err)
	assert.Equal(t, schema.MonthKey("2024-01"), records[1].Month)
	assert.Equal(t, 2.5, records[1].Units)
}

func TestDecodeFile_KeepsIdentifierText(t *testing.T) {
	data := []byte("Date,User,Units,Project\n" +
		"2024-01-02,007,2,0042\n" +
		"2024-01-03,alice,4,42\n" +
		"2024-01-04,alice,1,1e3\n")

	rows, err := DecodeFile("hours.csv", data)
	require.NoError(t, err)

	records, stats, err := normalize.Normalize(rows)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, []schema.NormalizedRecord{
		{Month: "2024-01", User: "007", Project: "0042", Units: 2},
		{Month: "2024-01", User: "alice", Project: "42", Units: 4},
		{Month: "2024-01", User: "alice", Project: "1e3", Units: 1},
	}, records)
}

func TestDecodeFile_TSV(t *testing.T) {
	rows, err := DecodeFile("hours.tsv", []byte("Date\tUser\tUnits\n2024-02-01\tCarol\t3\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	v, _ := rows[0].Get("User")
	assert.Equal(t, "Carol", v)
}

func TestDecodeFile_Unsupported(t *testing.T) {
	_, err := DecodeFile("hours.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.False(t, IsSupported("hours.pdf"))
	assert.True(t, IsSupported("hours.XLSX"))
}

func TestDecodeFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Timesheet export"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Date", "User", "Units", "Project"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{45306, "Alice", 4, "Apollo"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"2024-02-10", "Bob", 1.5, "Gemini"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := DecodeFile("hours.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	records, stats, err := normalize.Normalize(rows)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Kept)
	assert.Equal(t, schema.MonthKey("2024-01"), records[0].Month)
	assert.Equal(t, schema.MonthKey("2024-02"), records[1].Month)
	assert.Equal(t, 1.5, records[1].Units)
}

func TestDecodeFile_CorruptWorkbook(t *testing.T) {
	_, err := DecodeFile("hours.xlsx", []byte("not a zip"))
	assert.Error(t, err)
}

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name     string
		grid     [][]string
		expected int
	}{
		{"first row", [][]string{{"Date", "User"}, {"2024-01-01", "Alice"}}, 0},
		{"title rows above", [][]string{{"Report"}, {""}, {"Date spent", "User", "Units"}}, 2},
		{"no header falls back", [][]string{{"a", "b"}, {"c", "d"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindHeaderRow(tt.grid))
		})
	}
}

func TestRowsFromGrid(t *testing.T) {
	grid := [][]string{
		{"Date", "", "User", "Units"},
		{"2024-01-01", "ignored", "Alice"},
		{"", "only-unnamed", "", ""},
	}
	rows := RowsFromGrid(grid)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.RawRow{
		{Name: "Date", Value: "2024-01-01"},
		{Name: "User", Value: "Alice"},
		{Name: "Units", Value: ""},
	}, rows[0])

	assert.Nil(t, RowsFromGrid(nil))
}
