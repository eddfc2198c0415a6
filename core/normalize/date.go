package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/hoursight/schema"
)

// serialEpoch is day 0 of spreadsheet serial dates.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxSerialDays is the serial number of 9999-12-31.
const maxSerialDays = 2958465

var (
	yearMonthPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	isoPrefixPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	slashPattern     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})`)
	serialPattern    = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// fallbackLayouts are the last layouts tried for date strings.
var fallbackLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
	"2006/01/02",
	"2006.01.02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"January 2006",
	"Jan 2006",
	"Mon Jan 2 2006",
}

// ParseMonth converts a date cell of unknown representation into a MonthKey.
// Accepted values are time.Time, spreadsheet serial numbers (numeric or as text)
// and date strings. Free text that matches no known layout is rejected.
func ParseMonth(value any) (schema.MonthKey, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return schema.MonthKeyOf(v), true
	case *time.Time:
		if v == nil {
			return "", false
		}
		return ParseMonth(*v)
	case string:
		return parseMonthString(v)
	}
	if days, ok := toFloat(value); ok {
		return parseSerial(days)
	}
	return "", false
}

// parseSerial adds days to the serial epoch, keeping any fractional day.
func parseSerial(days float64) (schema.MonthKey, bool) {
	if math.IsNaN(days) || math.IsInf(days, 0) || math.Abs(days) > maxSerialDays {
		return "", false
	}
	whole := math.Floor(days)
	t := serialEpoch.AddDate(0, 0, int(whole)).Add(time.Duration((days - whole) * float64(24*time.Hour)))
	return schema.MonthKeyOf(t), true
}

func parseMonthString(raw string) (schema.MonthKey, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if serialPattern.MatchString(s) {
		days, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", false
		}
		return parseSerial(days)
	}
	if m := yearMonthPattern.FindStringSubmatch(s); m != nil {
		return monthFromParts(m[1], m[2], "1")
	}
	if m := isoPrefixPattern.FindStringSubmatch(s); m != nil {
		return monthFromParts(m[1], m[2], m[3])
	}
	if m := slashPattern.FindStringSubmatch(s); m != nil {
		// MM/DD/YYYY, or D/M/YYYY when the first part cannot be a month
		if key, ok := monthFromParts(m[3], m[1], m[2]); ok {
			return key, true
		}
		if first, _ := strconv.Atoi(m[1]); first > 12 {
			return monthFromParts(m[3], m[2], m[1])
		}
		return "", false
	}
	return parseGeneric(s)
}

// monthFromParts validates numeric year, month and day strings.
func monthFromParts(yearStr, monthStr, dayStr string) (schema.MonthKey, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	return schema.NewMonthKey(year, time.Month(month)), true
}

// parseGeneric tries the well-known fallback layouts.
func parseGeneric(s string) (schema.MonthKey, bool) {
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return schema.MonthKeyOf(t), true
		}
	}
	return "", false
}

// toFloat converts numeric cell values to float64.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}
