package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/hoursight/schema"
)

// Bucket label constants.
const (
	MainValue   = "Main"   // Main value
	OtherValue  = "Other"  // Other value
	MergedValue = "Merged" // Merged value
)

// Color variables for console output.
var (
	MainColor   = color.New(color.FgGreen, color.Bold) // MainColor marks individually displayed projects.
	OtherColor  = color.New(color.FgYellow)            // OtherColor marks projects folded into Others.
	MergedColor = color.New(color.FgCyan, color.Bold)  // MergedColor marks the synthesized Others row.
)

// GetPlainLabel returns a plain text label for a bucket status.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(status schema.BucketStatus) string {
	switch status {
	case schema.MainStatus:
		return MainValue
	case schema.MergedStatus:
		return MergedValue
	default:
		return OtherValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(status schema.BucketStatus) string {
	text := GetPlainLabel(status)

	switch text {
	case MainValue:
		return MainColor.Sprint(text)
	case MergedValue:
		return MergedColor.Sprint(text)
	default:
		return OtherColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for dataset cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hoursight_cache.db"
	}
	return filepath.Join(homeDir, ".hoursight_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for report history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".hoursight_history.db"
	}
	return filepath.Join(homeDir, ".hoursight_history.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." suffix and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
