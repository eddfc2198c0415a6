package schema

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaError reports that required columns could not be resolved from the probe row.
type SchemaError struct {
	Missing []string // semantic column names, e.g. "User"
	Headers []string // headers seen on the probe row
}

func (e *SchemaError) Error() string {
	if len(e.Missing) == 0 {
		return "missing required columns"
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// EmptyResultError reports that normalization left nothing to aggregate.
type EmptyResultError struct {
	Reason string
	Stats  DropStats
}

func (e *EmptyResultError) Error() string {
	if e.Reason == "" {
		return "no valid records found"
	}
	return "no valid records found: " + e.Reason
}

// IsDatasetRejected reports whether err rejects the whole dataset.
func IsDatasetRejected(err error) bool {
	var schemaErr *SchemaError
	var emptyErr *EmptyResultError
	return errors.As(err, &schemaErr) || errors.As(err, &emptyErr)
}
