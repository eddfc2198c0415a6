package schema

import (
	"strings"
	"unicode"
)

// trimNamePart strips surrounding punctuation from one name token, keeping hyphens,
// apostrophes and inner periods.
func trimNamePart(part string) string {
	cleaned := strings.TrimFunc(part, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\''
	})
	return strings.TrimSuffix(cleaned, ".")
}

// ShortName shortens "Jane Doe" to "Jane D" for narrow table columns.
// Single-token names, e-mail addresses and bot accounts are returned trimmed.
func ShortName(name string) string {
	trimmed := strings.TrimSpace(name)
	if strings.Contains(trimmed, "[bot]") || strings.Contains(trimmed, "@") {
		return strings.Join(strings.Fields(trimmed), " ")
	}

	var parts []string
	for _, p := range strings.Fields(strings.Trim(trimmed, "()\"'`")) {
		if cp := trimNamePart(p); cp != "" {
			parts = append(parts, cp)
		}
	}

	switch len(parts) {
	case 0:
		return trimmed
	case 1:
		return parts[0]
	default:
		last := []rune(parts[len(parts)-1])
		return parts[0] + " " + string(last[0])
	}
}

// FormatDevelopers joins developer names in short form, e.g. "Jane D, John S".
func FormatDevelopers(names []string) string {
	short := make([]string, len(names))
	for i, n := range names {
		short[i] = ShortName(n)
	}
	return strings.Join(short, ", ")
}
