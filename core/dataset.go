package core

import (
	"fmt"
	"time"

	"github.com/huangsam/hoursight/core/agg"
	"github.com/huangsam/hoursight/core/algo"
	"github.com/huangsam/hoursight/core/normalize"
	"github.com/huangsam/hoursight/schema"
)

// Dataset is an immutable snapshot of normalized records from one source.
// Callers own the "current" dataset pointer; recomputation never mutates it.
type Dataset struct {
	Name     string
	Source   schema.SourceKind
	Records  []schema.NormalizedRecord
	Stats    schema.DropStats
	LoadedAt time.Time
}

// NewDataset validates and normalizes raw rows into a Dataset.
// It returns *schema.SchemaError or *schema.EmptyResultError when the rows are rejected.
func NewDataset(name string, source schema.SourceKind, rows []schema.RawRow) (*Dataset, error) {
	if err := normalize.Validate(rows); err != nil {
		return nil, err
	}
	records, stats, err := normalize.Normalize(rows)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Name:     name,
		Source:   source,
		Records:  records,
		Stats:    stats,
		LoadedAt: time.Now(),
	}, nil
}

// Recompute filters the dataset to r and derives a fresh bundle, bucket plan and
// developer ranking. Nothing from a previous call is reused.
func Recompute(ds *Dataset, r schema.MonthRange, policy schema.BucketPolicy) (*schema.Report, error) {
	records := agg.FilterByMonth(ds.Records, r)
	if len(records) == 0 {
		reason := "dataset has no records"
		if !r.IsZero() {
			reason = fmt.Sprintf("no records between %s", r)
		}
		return nil, &schema.EmptyResultError{Reason: reason, Stats: ds.Stats}
	}

	bundle := agg.Aggregate(records)
	return &schema.Report{
		Source:     ds.Name,
		Range:      r,
		Stats:      ds.Stats,
		Bundle:     bundle,
		Plan:       algo.Bucket(bundle.ProjectTotals, policy),
		Developers: algo.RankDevelopers(bundle.DeveloperTotals, 0),
	}, nil
}
