package schema

import "sort"

// ownerLimit is how many top developers are listed per project.
const ownerLimit = 2

// ProjectRow is a project line ready for presentation.
type ProjectRow struct {
	Rank   int          `json:"rank" yaml:"rank"` // 0 for the merged Others row
	Name   string       `json:"name" yaml:"name"`
	Status BucketStatus `json:"status" yaml:"status"`
	Color  string       `json:"color" yaml:"color"`
	Total  float64      `json:"total" yaml:"total"`
	Share  float64      `json:"share_percent" yaml:"share_percent"`
	Months MonthTotals  `json:"months" yaml:"months"`
	Owners []string     `json:"top_developers,omitempty" yaml:"top_developers,omitempty"`
}

// DeveloperRow is a developer line ready for presentation.
type DeveloperRow struct {
	Rank  int     `json:"rank" yaml:"rank"`
	Share float64 `json:"share_percent" yaml:"share_percent"`
	DeveloperTotal
}

// SharePercent returns part as a percentage of whole, or 0 when whole is 0.
func SharePercent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// EnrichProjects lists main projects in rank order followed by the merged Others row.
func EnrichProjects(bundle AggregateBundle, plan BucketPlan) []ProjectRow {
	rows := make([]ProjectRow, 0, len(plan.MainProjects)+1)
	for i, name := range plan.MainProjects {
		total := plan.ProjectTotals[name]
		rows = append(rows, ProjectRow{
			Rank:   i + 1,
			Name:   name,
			Status: MainStatus,
			Color:  plan.ColorAssignment[name],
			Total:  total,
			Share:  SharePercent(total, plan.TotalHoursAll),
			Months: bundle.ProjectTotals[name],
			Owners: TopDevelopers(bundle, name, ownerLimit),
		})
	}
	if plan.Others != nil {
		rows = append(rows, ProjectRow{
			Name:   plan.Others.Name,
			Status: MergedStatus,
			Color:  OthersColor,
			Total:  plan.Others.Total,
			Share:  SharePercent(plan.Others.Total, plan.TotalHoursAll),
			Months: plan.Others.Months,
		})
	}
	return rows
}

// EnrichDevelopers adds rank and share of total hours to ranked developers.
func EnrichDevelopers(devs []DeveloperTotal) []DeveloperRow {
	all := 0.0
	for _, d := range devs {
		all += d.Total
	}
	output := make([]DeveloperRow, len(devs))
	for i, d := range devs {
		output[i] = DeveloperRow{
			Rank:           i + 1,
			Share:          SharePercent(d.Total, all),
			DeveloperTotal: d,
		}
	}
	return output
}

// TopDevelopers returns up to limit developers with the most hours on project.
func TopDevelopers(bundle AggregateBundle, project string, limit int) []string {
	type contrib struct {
		name  string
		hours float64
	}
	var contribs []contrib
	for user, projects := range bundle.Detail {
		if months, ok := projects[project]; ok {
			contribs = append(contribs, contrib{name: user, hours: months.Sum()})
		}
	}
	sort.Slice(contribs, func(i, j int) bool {
		if contribs[i].hours != contribs[j].hours {
			return contribs[i].hours > contribs[j].hours
		}
		return contribs[i].name < contribs[j].name
	})
	var owners []string
	for i := 0; i < len(contribs) && i < limit; i++ {
		owners = append(owners, contribs[i].name)
	}
	return owners
}
