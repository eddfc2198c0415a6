package algo

import (
	"errors"
	"fmt"
	"sort"

	"github.com/huangsam/hoursight/schema"
)

// Drill-down lookup failures.
var (
	ErrUnknownDeveloper = errors.New("unknown developer")
	ErrUnknownProject   = errors.New("developer has no hours on project")
)

// DeveloperInsights builds the project by month drill-down for one developer.
// Months cover every month the developer logged hours, whatever the project filter.
// When project is non-empty only that project is listed. Projects are sorted by
// total descending and colored by their position in that order.
func DeveloperInsights(detail map[string]map[string]schema.MonthTotals, user, project string) (schema.DeveloperInsight, error) {
	devData, ok := detail[user]
	if !ok {
		return schema.DeveloperInsight{}, fmt.Errorf("%w: %s", ErrUnknownDeveloper, user)
	}

	monthSet := make(map[schema.MonthKey]struct{})
	for _, months := range devData {
		for m := range months {
			monthSet[m] = struct{}{}
		}
	}
	months := make([]schema.MonthKey, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	selected := devData
	if project != "" {
		projMonths, ok := devData[project]
		if !ok {
			return schema.DeveloperInsight{}, fmt.Errorf("%w: %s on %s", ErrUnknownProject, user, project)
		}
		selected = map[string]schema.MonthTotals{project: projMonths}
	}

	insight := schema.DeveloperInsight{User: user, Months: months}
	for i, r := range rankTotals(selected) {
		series := make(schema.MonthTotals, len(months))
		for _, m := range months {
			series[m] = selected[r.name][m]
		}
		insight.Projects = append(insight.Projects, schema.InsightProject{
			Project: r.name,
			Color:   PaletteToken(i),
			Total:   r.total,
			Months:  series,
		})
		insight.Total += r.total
	}
	return insight, nil
}
