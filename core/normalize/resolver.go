// Package normalize turns raw timesheet rows into typed records.
package normalize

import (
	"strings"

	"github.com/huangsam/hoursight/schema"
)

// Columns holds the source header names resolved for each semantic column.
// An empty name means the column could not be found.
type Columns struct {
	Date    string
	User    string
	Units   string
	Project string
}

// Missing lists the required semantic columns that are unresolved.
func (c Columns) Missing() []string {
	var missing []string
	if c.Date == "" {
		missing = append(missing, "Date")
	}
	if c.User == "" {
		missing = append(missing, "User")
	}
	if c.Units == "" {
		missing = append(missing, "Units")
	}
	return missing
}

// columnMatcher decides whether a trimmed, lowercased header names a column.
type columnMatcher func(header string) bool

func containsAny(subs ...string) columnMatcher {
	return func(header string) bool {
		for _, s := range subs {
			if strings.Contains(header, s) {
				return true
			}
		}
		return false
	}
}

func equalsAny(names ...string) columnMatcher {
	return func(header string) bool {
		for _, n := range names {
			if header == n {
				return true
			}
		}
		return false
	}
}

var (
	dateMatcher    = containsAny("date", "spent")
	userMatcher    = equalsAny("user")
	unitsMatcher   = equalsAny("units", "hours")
	projectMatcher = equalsAny("project")
)

// ResolveColumns locates the Date, User, Units and Project columns on a probe row.
// Each column takes the first field, in row order, whose header matches.
func ResolveColumns(row schema.RawRow) Columns {
	return Columns{
		Date:    firstMatch(row, dateMatcher),
		User:    firstMatch(row, userMatcher),
		Units:   firstMatch(row, unitsMatcher),
		Project: firstMatch(row, projectMatcher),
	}
}

func firstMatch(row schema.RawRow, match columnMatcher) string {
	for _, f := range row {
		if match(strings.ToLower(strings.TrimSpace(f.Name))) {
			return f.Name
		}
	}
	return ""
}
