// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/hoursight/schema"
)

// RowSource supplies raw timesheet rows from a remote backend.
// This allows the sync logic to be tested without a live endpoint.
type RowSource interface {
	// Fetch returns the rows inside the month range, newest first, up to the source limit.
	Fetch(ctx context.Context, r schema.MonthRange) ([]schema.RawRow, error)

	// Count returns how many rows the source holds for the month range.
	Count(ctx context.Context, r schema.MonthRange) (int, error)

	// Limit is the maximum number of rows a single Fetch returns.
	Limit() int
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetDatasetStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for raw dataset storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	List() ([]schema.CacheEntry, error)
	Delete(key string) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking report runs and their monthly totals.
type HistoryStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the report run with completion data
	EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error

	// RecordProjectMonths stores the per project and month totals of a run
	RecordProjectMonths(runID int64, records []schema.ProjectMonthRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded report run
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllProjectMonths returns every recorded project month total
	GetAllProjectMonths() ([]schema.ProjectMonthRecord, error)

	// Close closes the underlying connection
	Close() error
}
