// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/hoursight/internal/contract"
	"golang.org/x/term"
)

// Width bounds for the name column of month tables.
const (
	minNameWidth  = 12
	maxNameWidth  = 40
	monthColWidth = 10
)

// GetMaxTableNameWidth calculates the maximum width for project or developer names
// in table output, given how many other columns share the line.
func GetMaxTableNameWidth(cfg *contract.Config, otherColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the other columns plus borders and padding
	available := termWidth - otherColumns*monthColWidth - 10
	return max(minNameWidth, min(available, maxNameWidth))
}

// writeFooter prints the timing line shared by every table view.
func writeFooter(w io.Writer, cfg *contract.Config, duration time.Duration) {
	backend := string(cfg.CacheBackend)
	if cfg.NoCache {
		backend = "disabled"
	}
	fmt.Fprintf(w, "Report computed in %v. Cache backend: %s\n", duration.Round(time.Millisecond), backend)
}
