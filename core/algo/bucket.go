package algo

import (
	"fmt"
	"sort"

	"github.com/huangsam/hoursight/schema"
)

// Bucket splits projects into main and other sets and assigns color tokens.
//
// Projects are ranked by grand total. The project at 0-based rank i is main when
// i < policy.MaxMain and it is either not small or i < policy.AlwaysMain. A project
// is small when its share of all hours is below policy.SmallShare; nothing is small
// when total hours are zero. Other projects are merged into one Others bucket whose
// month totals are the elementwise sum of theirs.
func Bucket(projectTotals map[string]schema.MonthTotals, policy schema.BucketPolicy) schema.BucketPlan {
	ranked := rankTotals(projectTotals)

	plan := schema.BucketPlan{
		MainProjects:    []string{},
		OtherProjects:   []string{},
		ColorAssignment: make(map[string]string, len(ranked)),
		ProjectTotals:   make(map[string]float64, len(ranked)),
	}
	for _, r := range ranked {
		plan.TotalHoursAll += r.total
		plan.ProjectTotals[r.name] = r.total
	}

	for i, r := range ranked {
		if isMain(i, r.total, plan.TotalHoursAll, policy) {
			plan.MainProjects = append(plan.MainProjects, r.name)
			plan.ColorAssignment[r.name] = PaletteToken(i)
			continue
		}
		plan.OtherProjects = append(plan.OtherProjects, r.name)
		plan.ColorAssignment[r.name] = schema.OthersColor
	}

	if len(plan.OtherProjects) > 0 {
		plan.Others = mergeOthers(plan.OtherProjects, projectTotals, plan.TotalHoursAll)
	}
	return plan
}

// isMain applies the rank cap and small-share threshold to one ranked project.
func isMain(rank int, total, totalAll float64, policy schema.BucketPolicy) bool {
	if rank >= policy.MaxMain {
		return false
	}
	small := totalAll > 0 && total/totalAll < policy.SmallShare
	return !small || rank < policy.AlwaysMain
}

// mergeOthers synthesizes the Others bucket and its drill-down summary.
func mergeOthers(others []string, projectTotals map[string]schema.MonthTotals, totalAll float64) *schema.OthersBucket {
	bucket := &schema.OthersBucket{
		Name:    OthersName(len(others)),
		Months:  make(schema.MonthTotals),
		Summary: make([]schema.OtherProjectSummary, 0, len(others)),
	}
	for _, name := range others {
		hours := 0.0
		for m, v := range projectTotals[name] {
			bucket.Months[m] += v
			hours += v
		}
		bucket.Total += hours
		bucket.Summary = append(bucket.Summary, schema.OtherProjectSummary{
			Name:    name,
			Hours:   hours,
			Percent: schema.SharePercent(hours, totalAll),
		})
	}
	sort.SliceStable(bucket.Summary, func(i, j int) bool {
		if bucket.Summary[i].Hours != bucket.Summary[j].Hours {
			return bucket.Summary[i].Hours > bucket.Summary[j].Hours
		}
		return bucket.Summary[i].Name < bucket.Summary[j].Name
	})
	return bucket
}

// OthersName labels the merged bucket, e.g. "Others (3 projects)".
func OthersName(count int) string {
	if count == 1 {
		return "Others (1 project)"
	}
	return fmt.Sprintf("Others (%d projects)", count)
}
