//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestHoursightWithMySQL tests the hoursight CLI with a MySQL backend.
func TestHoursightWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "hoursight",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/hoursight?parseTime=true", host, port.Port())
	runBackendScenario(t, "mysql", connStr)
}

// TestHoursightWithPostgres tests the hoursight CLI with a PostgreSQL backend.
func TestHoursightWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	runBackendScenario(t, "postgresql", connStr)
}

// runBackendScenario clears, fills and inspects the cache and history stores on one backend.
func runBackendScenario(t *testing.T, backend, connStr string) {
	home := t.TempDir()
	path := writeTimesheet(t, home)
	env := []string{
		"HOURSIGHT_CACHE_BACKEND=" + backend,
		"HOURSIGHT_CACHE_DB_CONNECT=" + connStr,
		"HOURSIGHT_HISTORY_BACKEND=" + backend,
		"HOURSIGHT_HISTORY_DB_CONNECT=" + connStr,
	}

	_, err := runCommand(t, home, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runCommand(t, home, env, "history", "clear")
	require.NoError(t, err)

	_, err = runCommand(t, home, env, "history", "migrate")
	require.NoError(t, err)

	_, err = runCommand(t, home, env, "summary", path)
	require.NoError(t, err)
	_, err = runCommand(t, home, env, "projects", "--start", "2024-02")
	require.NoError(t, err)

	out, err := runCommand(t, home, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Entries: 1")

	out, err = runCommand(t, home, env, "cache", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "hours.csv")

	out, err = runCommand(t, home, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 2")

	exportBase := filepath.Join(home, "history")
	_, err = runCommand(t, home, env, "history", "export", "--output-file", exportBase)
	require.NoError(t, err)
	assert.FileExists(t, exportBase+".report_runs.parquet")
	assert.FileExists(t, exportBase+".project_months.parquet")
}
