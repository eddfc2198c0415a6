// Package schema has the data model shared by decoding, aggregation, storage and output.
package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// SourceKind represents where a dataset was loaded from.
	SourceKind string

	// BucketStatus represents whether a project is shown on its own or merged.
	BucketStatus string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All dataset sources supported.
const (
	FileSource   SourceKind = "file"
	RemoteSource SourceKind = "remote"
)

// All bucket statuses.
const (
	MainStatus   BucketStatus = "main"
	OtherStatus  BucketStatus = "other"
	MergedStatus BucketStatus = "merged" // the synthesized Others row
)

// Defaults applied during row normalization.
const (
	UnknownUser       = "Unknown User"
	UnassignedProject = "Unassigned"
)

// Bucketing defaults. MaxMainProjects caps the main set, AlwaysMainProjects
// are kept regardless of share, and SmallShareThreshold is the share below
// which ranks past AlwaysMainProjects fall into Others.
const (
	DefaultMaxMainProjects    = 12
	DefaultAlwaysMainProjects = 5
	DefaultSmallShare         = 0.01
)

// OthersColor is the shared color token for every project in the Others bucket.
const OthersColor = "#64748b"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
