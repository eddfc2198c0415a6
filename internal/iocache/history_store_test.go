package iocache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/hoursight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun(time.Now(), map[string]any{"input": "hours.csv"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordProjectMonths(1, []schema.ProjectMonthRecord{{Project: "Apollo"}}))
	assert.NoError(t, store.EndRun(1, time.Now(), schema.RunSummary{}))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestHistoryStore_SQLite(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	startTime := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	params := map[string]any{"input": "hours.csv", "max_main": 12}

	runID, err := store.BeginRun(startTime, params)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	records := []schema.ProjectMonthRecord{
		{RunID: runID, Project: "Apollo", Month: "2024-01", Hours: 10, Status: "main", Color: "#3b82f6"},
		{RunID: runID, Project: "Zeus", Month: "2024-02", Hours: 0.5, Status: "other", Color: schema.OthersColor},
	}
	require.NoError(t, store.RecordProjectMonths(runID, records))

	summary := schema.RunSummary{
		Source:     "hours.csv",
		Range:      schema.MonthRange{Start: "2024-01"},
		Stats:      schema.DropStats{TotalRows: 12, Kept: 10, BadDate: 1, NonPositiveUnits: 1},
		TotalHours: 10.5,
	}
	require.NoError(t, store.EndRun(runID, startTime.Add(250*time.Millisecond), summary))

	t.Run("runs", func(t *testing.T) {
		runs, err := store.GetAllRuns()
		require.NoError(t, err)
		require.Len(t, runs, 1)

		run := runs[0]
		assert.Equal(t, runID, run.RunID)
		assert.True(t, startTime.Equal(run.StartTime))
		require.NotNil(t, run.EndTime)
		require.NotNil(t, run.RunDurationMs)
		assert.Equal(t, int32(250), *run.RunDurationMs)
		assert.Equal(t, "hours.csv", run.Source)
		require.NotNil(t, run.RangeStart)
		assert.Equal(t, "2024-01", *run.RangeStart)
		assert.Nil(t, run.RangeEnd)
		assert.Equal(t, int32(10), run.RecordsKept)
		assert.Equal(t, int32(2), run.RowsDropped)
		assert.InDelta(t, 10.5, run.TotalHours, 1e-9)

		require.NotNil(t, run.ConfigParams)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &decoded))
		assert.Equal(t, "hours.csv", decoded["input"])
	})

	t.Run("project months", func(t *testing.T) {
		got, err := store.GetAllProjectMonths()
		require.NoError(t, err)
		assert.Equal(t, records, got)
	})

	t.Run("duplicate project month is rejected", func(t *testing.T) {
		err := store.RecordProjectMonths(runID, records[:1])
		assert.Error(t, err)

		// The failed transaction leaves the earlier rows intact
		got, err := store.GetAllProjectMonths()
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("status", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 1, status.TotalRuns)
		assert.Equal(t, runID, status.LastRunID)
		assert.Equal(t, int64(10), status.TotalRecordsKept)
		assert.Equal(t, int64(1), status.TableSizes[reportRunsTable])
		assert.Equal(t, int64(2), status.TableSizes[projectMonthsTable])
	})

	t.Run("end unknown run", func(t *testing.T) {
		err := store.EndRun(9999, time.Now(), schema.RunSummary{})
		assert.Error(t, err)
	})
}

func TestGetCreateHistoryQueries(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		t.Run(string(backend), func(t *testing.T) {
			assert.Contains(t, getCreateReportRunsQuery(backend), reportRunsTable)
			assert.Contains(t, getCreateProjectMonthsQuery(backend), "PRIMARY KEY (run_id, project, month)")
		})
	}
	assert.Contains(t, getCreateReportRunsQuery(schema.PostgreSQLBackend), "BIGSERIAL")
	assert.Contains(t, getCreateReportRunsQuery(schema.MySQLBackend), "AUTO_INCREMENT")
}

func TestExportHistory(t *testing.T) {
	t.Run("missing output file", func(t *testing.T) {
		err := ExportHistory(&MockHistoryStore{}, "")
		assert.EqualError(t, err, "--output-file is required for export command")
	})

	t.Run("history disabled", func(t *testing.T) {
		err := ExportHistory(nil, "out")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "history tracking is disabled")
	})

	t.Run("status failure", func(t *testing.T) {
		mockStore := &MockHistoryStore{}
		mockStore.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))

		err := ExportHistory(mockStore, "out")
		assert.ErrorContains(t, err, "boom")
		mockStore.AssertExpectations(t)
	})

	t.Run("no runs", func(t *testing.T) {
		mockStore := &MockHistoryStore{}
		mockStore.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", Connected: true}, nil)

		err := ExportHistory(mockStore, "out")
		assert.EqualError(t, err, "no report history found to export")
	})

	t.Run("writes both files", func(t *testing.T) {
		store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		runID, err := store.BeginRun(time.Now(), nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordProjectMonths(runID, []schema.ProjectMonthRecord{
			{RunID: runID, Project: "Apollo", Month: "2024-01", Hours: 3, Status: "main", Color: "#3b82f6"},
		}))
		require.NoError(t, store.EndRun(runID, time.Now(), schema.RunSummary{Source: "hours.csv"}))

		outputFile := filepath.Join(t.TempDir(), "history")
		require.NoError(t, ExportHistory(store, outputFile))

		for _, suffix := range []string{".report_runs.parquet", ".project_months.parquet"} {
			info, err := os.Stat(outputFile + suffix)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
	})
}
