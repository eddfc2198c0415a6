package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthKey(t *testing.T) {
	m := MonthKeyOf(time.Date(2024, time.February, 17, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, MonthKey("2024-02"), m)
	assert.Equal(t, "Feb 2024", m.Label())
	assert.Equal(t, 29, m.LastDay())
	assert.True(t, m.Valid())

	bad := MonthKey("2024-13")
	assert.False(t, bad.Valid())
	assert.Equal(t, "2024-13", bad.Label())
	assert.Equal(t, 0, bad.LastDay())
}

func TestMonthRange(t *testing.T) {
	r := MonthRange{Start: "2024-02", End: "2024-04"}
	assert.False(t, r.Contains("2024-01"))
	assert.True(t, r.Contains("2024-02"))
	assert.True(t, r.Contains("2024-04"))
	assert.False(t, r.Contains("2024-05"))
	assert.Equal(t, "Feb 2024 .. Apr 2024", r.String())

	open := MonthRange{}
	assert.True(t, open.IsZero())
	assert.True(t, open.Contains("1999-12"))
	assert.Equal(t, "start .. end", open.String())
}

func TestRawRow(t *testing.T) {
	row := RawRow{{Name: "Date", Value: "2024-01-02"}, {Name: "Units", Value: 3.5}}

	v, ok := row.Get("Units")
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	_, ok = row.Get("units")
	assert.False(t, ok)
	assert.Equal(t, []string{"Date", "Units"}, row.Names())
}

func TestDatasetErrors(t *testing.T) {
	schemaErr := &SchemaError{Missing: []string{"User", "Units"}}
	assert.Equal(t, "missing required columns: User, Units", schemaErr.Error())
	assert.True(t, IsDatasetRejected(schemaErr))

	emptyErr := &EmptyResultError{Stats: DropStats{TotalRows: 2, BadDate: 1, NonPositiveUnits: 1}}
	assert.Equal(t, "no valid records found", emptyErr.Error())
	assert.Equal(t, 2, emptyErr.Stats.Dropped())
	assert.True(t, IsDatasetRejected(emptyErr))

	assert.False(t, IsDatasetRejected(assert.AnError))
}
