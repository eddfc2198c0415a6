// Package algo has the ranking, bucketing and drill-down policies applied to aggregated hours.
package algo

import (
	"sort"

	"github.com/huangsam/hoursight/schema"
	"github.com/samber/lo"
)

// rankedTotal is an entity name paired with its grand total.
type rankedTotal struct {
	name  string
	total float64
}

// rankTotals sums each entity's months and sorts by total descending.
// Equal totals are ordered by name so the ranking is deterministic.
func rankTotals(totals map[string]schema.MonthTotals) []rankedTotal {
	ranked := lo.MapToSlice(totals, func(name string, months schema.MonthTotals) rankedTotal {
		return rankedTotal{name: name, total: months.Sum()}
	})
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].total != ranked[j].total {
			return ranked[i].total > ranked[j].total
		}
		return ranked[i].name < ranked[j].name
	})
	return ranked
}

// RankDevelopers sorts developers by their total hours in descending order.
// If limit is positive and smaller than the number of developers, only the top
// 'limit' developers are returned.
func RankDevelopers(developerTotals map[string]schema.MonthTotals, limit int) []schema.DeveloperTotal {
	ranked := rankTotals(developerTotals)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return lo.Map(ranked, func(r rankedTotal, _ int) schema.DeveloperTotal {
		return schema.DeveloperTotal{
			Name:   r.name,
			Total:  r.total,
			Months: developerTotals[r.name],
		}
	})
}
