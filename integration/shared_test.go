//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared hoursight binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// timesheetCSV is a small export with one bad date and one zero-hour row.
const timesheetCSV = "Date spent,User,Units,Project\n" +
	"2024-01-03,Alice,4,Apollo\n" +
	"2024-01-04,Bob,2,Apollo\n" +
	"2024-01-09,Carol,1.25,Hermes\n" +
	"2024-02-05,Alice,3,Zephyr\n" +
	"2024-02-06,Bob,1.5,Apollo\n" +
	"2024-02-07,Bob,0,Apollo\n" +
	"2024-13-40,Carol,2,Hermes\n" +
	"2024-03-01,Carol,6,Hermes\n"

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the hoursight binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "hoursight-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "hoursight")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build hoursight: %v\n%s", err, out))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// writeTimesheet writes timesheetCSV into dir and returns its path.
func writeTimesheet(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "hours.csv")
	require.NoError(t, os.WriteFile(path, []byte(timesheetCSV), 0o644))
	return path
}

// runCommand runs the binary with HOME pointed at home so default SQLite files stay isolated.
func runCommand(t *testing.T, home string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = home
	cmd.Env = append(os.Environ(), "HOME="+home)
	cmd.Env = append(cmd.Env, env...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
