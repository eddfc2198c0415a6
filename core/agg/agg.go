// Package agg has aggregation logic for normalized timesheet records.
package agg

import (
	"sort"

	"github.com/huangsam/hoursight/schema"
	"github.com/samber/lo"
)

// Aggregate folds records into month, project, developer and detail totals in a single pass.
// The result does not depend on record order. Sums are plain float64 with no rounding.
func Aggregate(records []schema.NormalizedRecord) schema.AggregateBundle {
	// 1. Initialize aggregation maps
	monthSet := make(map[schema.MonthKey]struct{})
	projectTotals := make(map[string]schema.MonthTotals)
	developerTotals := make(map[string]schema.MonthTotals)
	detail := make(map[string]map[string]schema.MonthTotals)

	// 2. Fold every record into all maps
	for _, r := range records {
		monthSet[r.Month] = struct{}{}
		addTo(projectTotals, r.Project, r.Month, r.Units)
		addTo(developerTotals, r.User, r.Month, r.Units)

		if detail[r.User] == nil {
			detail[r.User] = make(map[string]schema.MonthTotals)
		}
		addTo(detail[r.User], r.Project, r.Month, r.Units)
	}

	return schema.AggregateBundle{
		Months:          sortedMonths(monthSet),
		ProjectTotals:   projectTotals,
		DeveloperTotals: developerTotals,
		Detail:          detail,
	}
}

// addTo adds units into m[key][month], creating the inner map on first use.
func addTo(m map[string]schema.MonthTotals, key string, month schema.MonthKey, units float64) {
	if m[key] == nil {
		m[key] = make(schema.MonthTotals)
	}
	m[key][month] += units
}

// sortedMonths returns the month set in ascending order.
func sortedMonths(set map[schema.MonthKey]struct{}) []schema.MonthKey {
	months := lo.Keys(set)
	sort.Slice(months, func(i, j int) bool {
		return months[i] < months[j]
	})
	return months
}

// FilterByMonth returns the records whose month falls within r, bounds inclusive.
// The input slice is never modified.
func FilterByMonth(records []schema.NormalizedRecord, r schema.MonthRange) []schema.NormalizedRecord {
	return lo.Filter(records, func(rec schema.NormalizedRecord, _ int) bool {
		return r.Contains(rec.Month)
	})
}

// RestrictToRange drops months outside r from every total in a bundle, returning a new bundle.
// Entities left without any month are removed.
func RestrictToRange(b schema.AggregateBundle, r schema.MonthRange) schema.AggregateBundle {
	out := schema.AggregateBundle{
		ProjectTotals:   restrictTotals(b.ProjectTotals, r),
		DeveloperTotals: restrictTotals(b.DeveloperTotals, r),
		Detail:          make(map[string]map[string]schema.MonthTotals),
	}
	for _, m := range b.Months {
		if r.Contains(m) {
			out.Months = append(out.Months, m)
		}
	}
	if out.Months == nil {
		out.Months = []schema.MonthKey{}
	}
	for user, projects := range b.Detail {
		if restricted := restrictTotals(projects, r); len(restricted) > 0 {
			out.Detail[user] = restricted
		}
	}
	return out
}

func restrictTotals(in map[string]schema.MonthTotals, r schema.MonthRange) map[string]schema.MonthTotals {
	out := make(map[string]schema.MonthTotals)
	for key, months := range in {
		for m, v := range months {
			if !r.Contains(m) {
				continue
			}
			if out[key] == nil {
				out[key] = make(schema.MonthTotals)
			}
			out[key][m] = v
		}
	}
	return out
}
