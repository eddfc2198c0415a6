package schema_test

import (
	"testing"

	"github.com/huangsam/hoursight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBundle() (schema.AggregateBundle, schema.BucketPlan) {
	bundle := schema.AggregateBundle{
		Months: []schema.MonthKey{"2024-01", "2024-02"},
		ProjectTotals: map[string]schema.MonthTotals{
			"Apollo": {"2024-01": 6, "2024-02": 2},
			"Zephyr": {"2024-02": 1},
		},
		Detail: map[string]map[string]schema.MonthTotals{
			"Alice": {"Apollo": {"2024-01": 3}},
			"Bob":   {"Apollo": {"2024-01": 3, "2024-02": 2}, "Zephyr": {"2024-02": 1}},
			"Cara":  {"Apollo": {"2024-02": 0.5}},
		},
	}
	plan := schema.BucketPlan{
		MainProjects:    []string{"Apollo"},
		OtherProjects:   []string{"Zephyr"},
		ColorAssignment: map[string]string{"Apollo": "#2563eb", "Zephyr": schema.OthersColor},
		ProjectTotals:   map[string]float64{"Apollo": 8, "Zephyr": 1},
		TotalHoursAll:   10,
		Others: &schema.OthersBucket{
			Name:   "Others (1)",
			Months: schema.MonthTotals{"2024-02": 1},
			Total:  1,
		},
	}
	return bundle, plan
}

func TestSharePercent(t *testing.T) {
	assert.InDelta(t, 25.0, schema.SharePercent(1, 4), 1e-9)
	assert.Equal(t, 0.0, schema.SharePercent(3, 0))
}

func TestEnrichProjects(t *testing.T) {
	bundle, plan := sampleBundle()

	rows := schema.EnrichProjects(bundle, plan)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "Apollo", rows[0].Name)
	assert.Equal(t, schema.MainStatus, rows[0].Status)
	assert.Equal(t, "#2563eb", rows[0].Color)
	assert.InDelta(t, 80.0, rows[0].Share, 1e-9)
	assert.Equal(t, []string{"Bob", "Alice"}, rows[0].Owners)

	assert.Equal(t, 0, rows[1].Rank)
	assert.Equal(t, "Others (1)", rows[1].Name)
	assert.Equal(t, schema.MergedStatus, rows[1].Status)
	assert.Equal(t, schema.OthersColor, rows[1].Color)
	assert.InDelta(t, 10.0, rows[1].Share, 1e-9)
}

func TestEnrichProjectsWithoutOthers(t *testing.T) {
	bundle, plan := sampleBundle()
	plan.Others = nil

	rows := schema.EnrichProjects(bundle, plan)
	require.Len(t, rows, 1)
	assert.Equal(t, "Apollo", rows[0].Name)
}

func TestEnrichDevelopers(t *testing.T) {
	devs := []schema.DeveloperTotal{
		{Name: "Bob", Total: 6},
		{Name: "Alice", Total: 3},
		{Name: "Cara", Total: 1},
	}

	rows := schema.EnrichDevelopers(devs)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "Bob", rows[0].Name)
	assert.InDelta(t, 60.0, rows[0].Share, 1e-9)
	assert.Equal(t, 3, rows[2].Rank)
	assert.InDelta(t, 10.0, rows[2].Share, 1e-9)

	assert.Empty(t, schema.EnrichDevelopers(nil))
}

func TestTopDevelopers(t *testing.T) {
	bundle, _ := sampleBundle()

	assert.Equal(t, []string{"Bob", "Alice", "Cara"}, schema.TopDevelopers(bundle, "Apollo", 5))
	assert.Equal(t, []string{"Bob"}, schema.TopDevelopers(bundle, "Zephyr", 2))
	assert.Nil(t, schema.TopDevelopers(bundle, "Nowhere", 2))
}
