package contract

import (
	"testing"
	"time"
	"unicode/utf8"
)

// FuzzTruncateName fuzzes TruncateName with random names and widths.
func FuzzTruncateName(f *testing.F) {
	seeds := []struct {
		name  string
		width int
	}{
		{"Apollo", 4},
		{"Others (12 projects)", 10},
		{"", 0},
		{"Projekt Über", 8},
	}
	for _, seed := range seeds {
		f.Add(seed.name, seed.width)
	}

	f.Fuzz(func(t *testing.T, name string, width int) {
		got := TruncateName(name, width)
		if width > 3 && utf8.RuneCountInString(got) > width {
			t.Fatalf("TruncateName(%q, %d) = %q exceeds width", name, width, got)
		}
	})
}

// FuzzParseMonthBound makes sure arbitrary input never panics and valid keys stay valid.
func FuzzParseMonthBound(f *testing.F) {
	for _, seed := range []string{"2024-01", "2024-01-15", "3 months ago", "last month", "", "garbage"} {
		f.Add(seed)
	}
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	f.Fuzz(func(t *testing.T, s string) {
		key, err := ParseMonthBound(s, now)
		if err == nil && key != "" && !key.Valid() {
			t.Fatalf("ParseMonthBound(%q) returned invalid key %q", s, key)
		}
	})
}
