// Package decode reads spreadsheet and CSV timesheet exports into raw rows.
package decode

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/huangsam/hoursight/schema"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions without a decoder.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// utf8BOM is stripped from the start of CSV input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SupportedExtensions lists the file extensions DecodeFile understands.
var SupportedExtensions = []string{".csv", ".tsv", ".xlsx", ".xlsm", ".xls"}

// IsSupported reports whether the file name has a decodable extension.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// DecodeFile converts file bytes into raw rows, choosing the decoder by extension.
// Only the first worksheet of a workbook is read.
func DecodeFile(name string, data []byte) ([]schema.RawRow, error) {
	var (
		grid [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		grid, err = readDelimited(data, ',')
	case ".tsv":
		grid, err = readDelimited(data, '\t')
	case ".xlsx", ".xlsm":
		grid, err = readXLSX(data)
	case ".xls":
		grid, err = readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(name), err)
	}
	return RowsFromGrid(grid), nil
}

// readDelimited reads CSV-like text, tolerating ragged rows and stray quotes.
func readDelimited(data []byte, sep rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var grid [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		grid = append(grid, record)
	}
	return grid, nil
}

// readXLSX reads the first worksheet with raw cell values, so date cells arrive as serial numbers.
func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	return file.GetRows(sheetName, excelize.Options{RawCellValue: true})
}

// readXLS reads the first worksheet of a legacy binary workbook.
func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("no worksheet found")
	}

	var grid [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// FindHeaderRow returns the index of the first row mentioning both "date" and "user",
// or 0 when no row does.
func FindHeaderRow(grid [][]string) int {
	for i, row := range grid {
		joined := strings.ToLower(strings.Join(row, " "))
		if strings.Contains(joined, "date") && strings.Contains(joined, "user") {
			return i
		}
	}
	return 0
}

// RowsFromGrid maps the rows below the header row to raw rows keyed by trimmed header text.
// Cells stay trimmed text; units and dates are converted during normalization.
// Columns with an empty header are skipped, as are rows without any value.
func RowsFromGrid(grid [][]string) []schema.RawRow {
	if len(grid) == 0 {
		return nil
	}
	headerIndex := FindHeaderRow(grid)
	headers := make([]string, len(grid[headerIndex]))
	for i, h := range grid[headerIndex] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]schema.RawRow, 0, len(grid)-headerIndex-1)
	for _, cells := range grid[headerIndex+1:] {
		row := make(schema.RawRow, 0, len(headers))
		hasData := false
		for col, header := range headers {
			if header == "" {
				continue
			}
			cell := ""
			if col < len(cells) {
				cell = strings.TrimSpace(cells[col])
			}
			if cell != "" {
				hasData = true
			}
			row = append(row, schema.Field{Name: header, Value: cell})
		}
		if hasData {
			rows = append(rows, row)
		}
	}
	return rows
}
