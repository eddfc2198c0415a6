package schema

import (
	"fmt"
	"time"
)

// MonthKey is a canonical YYYY-MM month. Lexicographic order equals chronological order.
type MonthKey string

// monthLayout is the time layout of a MonthKey.
const monthLayout = "2006-01"

// NewMonthKey builds a MonthKey from a year and month.
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// MonthKeyOf returns the MonthKey containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), t.Month())
}

// Time returns the first instant of the month in UTC.
func (m MonthKey) Time() (time.Time, error) {
	return time.Parse(monthLayout, string(m))
}

// Valid reports whether m is a well-formed month key.
func (m MonthKey) Valid() bool {
	_, err := m.Time()
	return err == nil
}

// Label returns the display label, e.g. "Jan 2024".
func (m MonthKey) Label() string {
	t, err := m.Time()
	if err != nil {
		return string(m)
	}
	return t.Format("Jan 2006")
}

// LastDay returns the last day-of-month number for m.
func (m MonthKey) LastDay() int {
	t, err := m.Time()
	if err != nil {
		return 0
	}
	return t.AddDate(0, 1, -1).Day()
}

// Field is a single named cell of a raw row. Name is the source header verbatim.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// RawRow is an ordered mapping of header name to cell value as handed over by a decoder.
// Values are strings, float64 numbers or time.Time.
type RawRow []Field

// Get returns the value stored under the exact field name.
func (r RawRow) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in their original order.
func (r RawRow) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// NormalizedRecord is one validated (user, project, month, units) observation.
type NormalizedRecord struct {
	Month   MonthKey `json:"month"`
	User    string   `json:"user"`
	Project string   `json:"project"`
	Units   float64  `json:"units"`
}

// DropStats counts rows discarded during normalization.
type DropStats struct {
	TotalRows        int `json:"total_rows" yaml:"total_rows"`
	Kept             int `json:"kept" yaml:"kept"`
	BadDate          int `json:"dropped_bad_date" yaml:"dropped_bad_date"`
	NonPositiveUnits int `json:"dropped_non_positive_units" yaml:"dropped_non_positive_units"`
}

// Dropped returns the total number of discarded rows.
func (s DropStats) Dropped() int {
	return s.BadDate + s.NonPositiveUnits
}

// MonthRange is an inclusive month window. An empty bound is unbounded on that side.
type MonthRange struct {
	Start MonthKey `json:"start,omitempty" yaml:"start,omitempty"`
	End   MonthKey `json:"end,omitempty" yaml:"end,omitempty"`
}

// Contains reports whether m falls within the range.
func (r MonthRange) Contains(m MonthKey) bool {
	if r.Start != "" && m < r.Start {
		return false
	}
	if r.End != "" && m > r.End {
		return false
	}
	return true
}

// IsZero reports whether both bounds are open.
func (r MonthRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}

// String renders the range for headers and logs.
func (r MonthRange) String() string {
	start, end := "start", "end"
	if r.Start != "" {
		start = r.Start.Label()
	}
	if r.End != "" {
		end = r.End.Label()
	}
	return start + " .. " + end
}
