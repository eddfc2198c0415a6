package schema

// MonthTotals maps a month to summed hours.
type MonthTotals map[MonthKey]float64

// Sum returns the grand total over all months.
func (mt MonthTotals) Sum() float64 {
	total := 0.0
	for _, v := range mt {
		total += v
	}
	return total
}

// AggregateBundle is the output of one aggregation pass over normalized records.
type AggregateBundle struct {
	Months          []MonthKey                        `json:"months" yaml:"months"`
	ProjectTotals   map[string]MonthTotals            `json:"project_totals" yaml:"project_totals"`
	DeveloperTotals map[string]MonthTotals            `json:"developer_totals" yaml:"developer_totals"`
	Detail          map[string]map[string]MonthTotals `json:"detail" yaml:"detail"`
}

// BucketPolicy holds the tunable ranking thresholds for main versus other projects.
type BucketPolicy struct {
	MaxMain    int     // ranks at or beyond this are always other
	AlwaysMain int     // ranks below this are always main
	SmallShare float64 // share of total hours below which a project counts as small
}

// DefaultBucketPolicy returns the stock bucketing thresholds.
func DefaultBucketPolicy() BucketPolicy {
	return BucketPolicy{
		MaxMain:    DefaultMaxMainProjects,
		AlwaysMain: DefaultAlwaysMainProjects,
		SmallShare: DefaultSmallShare,
	}
}

// OtherProjectSummary is one line of the Others drill-down.
type OtherProjectSummary struct {
	Name    string  `json:"name" yaml:"name"`
	Hours   float64 `json:"hours" yaml:"hours"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// OthersBucket is the synthesized entity merging every other project.
type OthersBucket struct {
	Name    string                `json:"name" yaml:"name"`
	Months  MonthTotals           `json:"months" yaml:"months"`
	Total   float64               `json:"total" yaml:"total"`
	Summary []OtherProjectSummary `json:"summary" yaml:"summary"`
}

// BucketPlan is the main/other classification and color assignment of projects.
type BucketPlan struct {
	MainProjects    []string           `json:"main_projects" yaml:"main_projects"`
	OtherProjects   []string           `json:"other_projects" yaml:"other_projects"`
	ColorAssignment map[string]string  `json:"color_assignment" yaml:"color_assignment"`
	ProjectTotals   map[string]float64 `json:"project_grand_totals" yaml:"project_grand_totals"`
	TotalHoursAll   float64            `json:"total_hours" yaml:"total_hours"`
	Others          *OthersBucket      `json:"others,omitempty" yaml:"others,omitempty"`
}

// IsMain reports whether project is in the main set.
func (p BucketPlan) IsMain(project string) bool {
	for _, name := range p.MainProjects {
		if name == project {
			return true
		}
	}
	return false
}

// DeveloperTotal is a developer with a grand total, used for ranking.
type DeveloperTotal struct {
	Name   string      `json:"name" yaml:"name"`
	Total  float64     `json:"total" yaml:"total"`
	Months MonthTotals `json:"months" yaml:"months"`
}

// InsightProject is one project row in a developer drill-down.
type InsightProject struct {
	Project string      `json:"project" yaml:"project"`
	Color   string      `json:"color" yaml:"color"`
	Total   float64     `json:"total" yaml:"total"`
	Months  MonthTotals `json:"months" yaml:"months"`
}

// DeveloperInsight is the developer to project to month drill-down for one developer.
type DeveloperInsight struct {
	User     string           `json:"user" yaml:"user"`
	Total    float64          `json:"total" yaml:"total"`
	Months   []MonthKey       `json:"months" yaml:"months"`
	Projects []InsightProject `json:"projects" yaml:"projects"`
}

// Report bundles everything one recomputation produces for presentation.
type Report struct {
	Source     string           `json:"source" yaml:"source"`
	Range      MonthRange       `json:"range" yaml:"range"`
	Stats      DropStats        `json:"stats" yaml:"stats"`
	Bundle     AggregateBundle  `json:"bundle" yaml:"bundle"`
	Plan       BucketPlan       `json:"plan" yaml:"plan"`
	Developers []DeveloperTotal `json:"developers" yaml:"developers"`
}
