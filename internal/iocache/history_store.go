package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/schema"
)

// Table names for report history.
const (
	reportRunsTable    = "hoursight_report_runs"
	projectMonthsTable = "hoursight_project_months"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{reportRunsTable, projectMonthsTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the report history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	queries := map[string]string{
		reportRunsTable:    getCreateReportRunsQuery(backend),
		projectMonthsTable: getCreateProjectMonthsQuery(backend),
	}
	for _, table := range historyTables {
		if _, err := db.Exec(queries[table]); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateReportRunsQuery returns the CREATE TABLE query for hoursight_report_runs.
func getCreateReportRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(reportRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				source VARCHAR(255),
				range_start CHAR(7),
				range_end CHAR(7),
				records_kept INT NOT NULL DEFAULT 0,
				rows_dropped INT NOT NULL DEFAULT 0,
				total_hours DOUBLE NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				source TEXT,
				range_start TEXT,
				range_end TEXT,
				records_kept INT NOT NULL DEFAULT 0,
				rows_dropped INT NOT NULL DEFAULT 0,
				total_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				source TEXT,
				range_start TEXT,
				range_end TEXT,
				records_kept INTEGER NOT NULL DEFAULT 0,
				rows_dropped INTEGER NOT NULL DEFAULT 0,
				total_hours REAL NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateProjectMonthsQuery returns the CREATE TABLE query for hoursight_project_months.
func getCreateProjectMonthsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(projectMonthsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				project VARCHAR(255) NOT NULL,
				month CHAR(7) NOT NULL,
				hours DOUBLE NOT NULL,
				status VARCHAR(16) NOT NULL,
				color VARCHAR(16) NOT NULL,
				PRIMARY KEY (run_id, project, month)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				project TEXT NOT NULL,
				month TEXT NOT NULL,
				hours DOUBLE PRECISION NOT NULL,
				status TEXT NOT NULL,
				color TEXT NOT NULL,
				PRIMARY KEY (run_id, project, month)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				project TEXT NOT NULL,
				month TEXT NOT NULL,
				hours REAL NOT NULL,
				status TEXT NOT NULL,
				color TEXT NOT NULL,
				PRIMARY KEY (run_id, project, month)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new report run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	// Serialize config params to JSON
	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, formatTime(startTime, hs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert report run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}
	return runID, nil
}

// EndRun updates the report run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, summary schema.RunSummary) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	startTime, err := hs.runStartTime(runID)
	if err != nil {
		return err
	}
	durationMs := endTime.Sub(startTime).Milliseconds()

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)
	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, source = %s, range_start = %s,
		range_end = %s, records_kept = %s, rows_dropped = %s, total_hours = %s WHERE run_id = %s`,
		quotedTableName, hs.bind(1), hs.bind(2), hs.bind(3), hs.bind(4), hs.bind(5), hs.bind(6), hs.bind(7), hs.bind(8), hs.bind(9))

	_, err = hs.db.Exec(updateQuery,
		formatTime(endTime, hs.backend),
		durationMs,
		summary.Source,
		nullableMonth(summary.Range.Start),
		nullableMonth(summary.Range.End),
		summary.Stats.Kept,
		summary.Stats.Dropped(),
		summary.TotalHours,
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// runStartTime reads back the start time of a run.
func (hs *HistoryStoreImpl) runStartTime(runID int64) (time.Time, error) {
	quotedTableName := quoteTableName(reportRunsTable, hs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, hs.bind(1))
	row := hs.db.QueryRow(query, runID)

	// Handle different time storage formats per backend
	if hs.backend == schema.SQLiteBackend {
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return time.Time{}, fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse start_time: %w", err)
		}
		return startTime, nil
	}

	var startTime time.Time
	if err := row.Scan(&startTime); err != nil {
		return time.Time{}, fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	return startTime, nil
}

// RecordProjectMonths stores the per project and month totals of a run in one transaction.
func (hs *HistoryStoreImpl) RecordProjectMonths(runID int64, records []schema.ProjectMonthRecord) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil || len(records) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (run_id, project, month, hours, status, color) VALUES (%s)`,
		quoteTableName(projectMonthsTable, hs.backend), placeholders(hs.backend, 6))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare project month insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.Project, r.Month, r.Hours, r.Status, r.Color); err != nil {
			return fmt.Errorf("failed to insert project month %s/%s: %w", r.Project, r.Month, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(reportRunsTable, hs.backend)

	// Get total runs
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		runs, err := hs.GetAllRuns()
		if err != nil {
			return status, err
		}
		first, last := runs[0], runs[len(runs)-1]
		status.LastRunID = last.RunID
		status.LastRunTime = last.StartTime
		status.OldestRunTime = first.StartTime

		kept := fmt.Sprintf("SELECT COALESCE(SUM(records_kept), 0) FROM %s", quotedRuns)
		if err := hs.db.QueryRow(kept).Scan(&status.TotalRecordsKept); err != nil {
			return status, fmt.Errorf("failed to get total records kept: %w", err)
		}
	}

	// Get table sizes
	for _, table := range historyTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all report runs ordered by run ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, start_time, end_time, run_duration_ms, source, range_start, range_end,
		records_kept, rows_dropped, total_hours, config_params FROM %s ORDER BY run_id`, quoteTableName(reportRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord
		var source sql.NullString

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &source,
				&record.RangeStart, &record.RangeEnd, &record.RecordsKept, &record.RowsDropped,
				&record.TotalHours, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &source,
				&record.RangeStart, &record.RangeEnd, &record.RecordsKept, &record.RowsDropped,
				&record.TotalHours, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
		}
		record.Source = source.String
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllProjectMonths retrieves every recorded project month total.
func (hs *HistoryStoreImpl) GetAllProjectMonths() ([]schema.ProjectMonthRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, project, month, hours, status, color FROM %s ORDER BY run_id, project, month`,
		quoteTableName(projectMonthsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query project months: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ProjectMonthRecord
	for rows.Next() {
		var r schema.ProjectMonthRecord
		if err := rows.Scan(&r.RunID, &r.Project, &r.Month, &r.Hours, &r.Status, &r.Color); err != nil {
			return nil, fmt.Errorf("failed to scan project month: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project months: %w", err)
	}
	return results, nil
}

// bind returns the i-th (1-based) bind parameter for the backend.
func (hs *HistoryStoreImpl) bind(i int) string {
	if hs.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// nullableMonth maps an open range bound to SQL NULL.
func nullableMonth(m schema.MonthKey) any {
	if m == "" {
		return nil
	}
	return string(m)
}
