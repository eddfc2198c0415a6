package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/hoursight/internal/contract"
	"github.com/huangsam/hoursight/internal/parquet"
)

// ExecuteHistoryExport exports the report history of the global manager to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	return ExportHistory(Manager.GetHistoryStore(), outputFile)
}

// ExportHistory writes every report run and project month total of store to
// outputFile.report_runs.parquet and outputFile.project_months.parquet.
func ExportHistory(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to enable it")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no report history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total report runs: %d\n", status.TotalRuns)
	fmt.Printf("Total project month records: %d\n", status.TableSizes[projectMonthsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	projectMonths, err := store.GetAllProjectMonths()
	if err != nil {
		return fmt.Errorf("failed to retrieve project months: %w", err)
	}

	parquetRuns := parquet.ConvertReportRunRecords(runs)
	runsFile := outputFile + ".report_runs.parquet"
	if err := parquet.WriteReportRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	fmt.Printf("Exported %d report runs to: %s\n", len(parquetRuns), runsFile)

	parquetMonths := parquet.ConvertProjectMonthRecords(projectMonths)
	monthsFile := outputFile + ".project_months.parquet"
	if err := parquet.WriteProjectMonthsParquet(parquetMonths, monthsFile); err != nil {
		return fmt.Errorf("failed to write project months: %w", err)
	}
	fmt.Printf("Exported %d project month records to: %s\n", len(parquetMonths), monthsFile)

	fmt.Println("\nExport complete! The Parquet files can be read with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}
