package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/hoursight/schema"
)

// Validate checks that the probe row exposes the required Date, User and Units columns.
// The first row is the probe, as decoders place the header-mapped data rows first.
func Validate(rows []schema.RawRow) error {
	if len(rows) == 0 {
		return &schema.EmptyResultError{Reason: "no data rows"}
	}
	cols := ResolveColumns(rows[0])
	if missing := cols.Missing(); len(missing) > 0 {
		return &schema.SchemaError{Missing: missing, Headers: rows[0].Names()}
	}
	return nil
}

// Normalize validates rows and converts each one into a NormalizedRecord.
// Rows with non-positive units or an unparseable date are dropped and counted
// in the returned DropStats. It returns an EmptyResultError when nothing is kept.
func Normalize(rows []schema.RawRow) ([]schema.NormalizedRecord, schema.DropStats, error) {
	stats := schema.DropStats{TotalRows: len(rows)}
	if err := Validate(rows); err != nil {
		return nil, stats, err
	}

	cols := ResolveColumns(rows[0])
	records := make([]schema.NormalizedRecord, 0, len(rows))
	for _, row := range rows {
		rec, reason := normalizeRow(row, cols)
		switch reason {
		case dropNonPositiveUnits:
			stats.NonPositiveUnits++
			continue
		case dropBadDate:
			stats.BadDate++
			continue
		}
		records = append(records, rec)
	}
	stats.Kept = len(records)

	if len(records) == 0 {
		return nil, stats, &schema.EmptyResultError{Reason: "every row was dropped", Stats: stats}
	}
	return records, stats, nil
}

// dropReason classifies why a row was discarded.
type dropReason int

const (
	keepRow dropReason = iota
	dropNonPositiveUnits
	dropBadDate
)

func normalizeRow(row schema.RawRow, cols Columns) (schema.NormalizedRecord, dropReason) {
	units := parseUnits(lookup(row, cols.Units))
	if units <= 0 {
		return schema.NormalizedRecord{}, dropNonPositiveUnits
	}
	month, ok := ParseMonth(lookup(row, cols.Date))
	if !ok {
		return schema.NormalizedRecord{}, dropBadDate
	}

	user := cellString(lookup(row, cols.User))
	if user == "" {
		user = schema.UnknownUser
	}
	project := cellString(lookup(row, cols.Project))
	if project == "" {
		project = schema.UnassignedProject
	}

	return schema.NormalizedRecord{
		Month:   month,
		User:    user,
		Project: project,
		Units:   units,
	}, keepRow
}

func lookup(row schema.RawRow, name string) any {
	if name == "" {
		return nil
	}
	v, _ := row.Get(name)
	return v
}

// parseUnits reads a units cell as a float; anything non-numeric counts as 0.
func parseUnits(value any) float64 {
	var f float64
	if s, ok := value.(string); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		f = parsed
	} else if n, ok := toFloat(value); ok {
		f = n
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// cellString renders a user or project cell as trimmed text.
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return v.Format(time.DateOnly)
	}
	if f, ok := toFloat(value); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}
