package schema

import "time"

// CacheEntry describes one cached dataset without its payload.
type CacheEntry struct {
	Key       string    `json:"key"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int       `json:"size_bytes"`
}

// CachedDataset is the payload stored for one cache key.
type CachedDataset struct {
	Name     string     `json:"name"`
	Source   SourceKind `json:"source"`
	RowCount int        `json:"row_count"`
	Data     []byte     `json:"data,omitempty"` // raw file bytes, for file sources
	Rows     []RawRow   `json:"rows,omitempty"` // decoded rows, for the remote source
}

// RunSummary is what a report run contributes to history.
type RunSummary struct {
	Source      string
	Range       MonthRange
	Stats       DropStats
	MonthCount  int
	TotalHours  float64
	MainCount   int
	OthersCount int
}

// ReportRunRecord represents a row from the hoursight_report_runs table.
type ReportRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Source        string
	RangeStart    *string
	RangeEnd      *string
	RecordsKept   int32
	RowsDropped   int32
	TotalHours    float64
	ConfigParams  *string
}

// ProjectMonthRecord represents a row from the hoursight_project_months table.
type ProjectMonthRecord struct {
	RunID   int64
	Project string
	Month   string
	Hours   float64
	Status  string
	Color   string
}
