package contract

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/hoursight/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	MaxPrecision       = 2
	DefaultRemoteTable = "openproject_timeentries"
	DefaultRemoteLimit = 1000
	MaxRemoteLimit     = 10000
	DefaultServeAddr   = "127.0.0.1:8080"
)


// RemoteConfig holds the REST backend settings for the sync command.
type RemoteConfig struct {
	URL   string
	Key   string // Please use env var as this is plaintext
	Table string
	Limit int
}

// Config holds the runtime configuration for a report.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath   string
	Range       schema.MonthRange
	Policy      schema.BucketPolicy
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Owner       bool
	Width       int // Terminal width override (0 = auto-detect)
	NoCache     bool
	UseColors   bool // Enable colored labels in table output

	InsightUser    string
	InsightProject string
	CountOnly      bool

	ServeAddr string
	Watch     bool
	Verbose   bool

	Remote RemoteConfig

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// BucketingRawInput holds bucketing overrides from the YAML config file.
type BucketingRawInput struct {
	MaxMain    *int     `mapstructure:"max_main"`
	AlwaysMain *int     `mapstructure:"always_main"`
	SmallShare *float64 `mapstructure:"small_share"`
}

// RemoteRawInput holds the remote source section of the YAML config file.
type RemoteRawInput struct {
	URL   string `mapstructure:"url"`
	Key   string `mapstructure:"key"`
	Table string `mapstructure:"table"`
	Limit int    `mapstructure:"limit"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile       string `mapstructure:"output-file"`
	Limit            int    `mapstructure:"limit"`
	Start            string `mapstructure:"start"`
	End              string `mapstructure:"end"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	Owner            bool   `mapstructure:"owner"`
	Width            int    `mapstructure:"width"`
	NoCache          bool   `mapstructure:"no-cache"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Color            string `mapstructure:"color"`

	// --- Fields from insightsCmd.Flags() ---
	User    string `mapstructure:"user"`
	Project string `mapstructure:"project"`

	// --- Fields from syncCmd.Flags() ---
	Count bool `mapstructure:"count"`

	// --- Fields from serveCmd.Flags() ---
	Addr    string `mapstructure:"addr"`
	Watch   bool   `mapstructure:"watch"`
	Verbose bool   `mapstructure:"verbose"`

	// --- Bucketing policy from config file ---
	Bucketing BucketingRawInput `mapstructure:"bucketing"`

	// --- Remote source from config file ---
	Remote RemoteRawInput `mapstructure:"remote"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithRange creates a copy of the Config and sets a new month range.
func (c *Config) CloneWithRange(r schema.MonthRange) *Config {
	clone := c.Clone()
	clone.Range = r
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processMonthRange(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processBucketPolicy(cfg, input); err != nil {
		return err
	}
	if err := processRemote(cfg, input); err != nil {
		return err
	}
	if err := resolveInputPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// Cache and history must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all flag-level fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Owner = input.Owner
	cfg.Width = input.Width
	cfg.NoCache = input.NoCache
	cfg.InsightUser = strings.TrimSpace(input.User)
	cfg.InsightProject = strings.TrimSpace(input.Project)
	cfg.CountOnly = input.Count
	cfg.Watch = input.Watch
	cfg.Verbose = input.Verbose

	cfg.ServeAddr = strings.TrimSpace(input.Addr)
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	// --- 3. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processMonthRange parses the --start and --end month bounds.
func processMonthRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	r, err := parseMonthRange(input.Start, input.End, now)
	if err != nil {
		return err
	}
	cfg.Range = r
	return nil
}

// parseMonthRange resolves both bounds and rejects a start after the end.
func parseMonthRange(startStr, endStr string, now time.Time) (schema.MonthRange, error) {
	start, err := ParseMonthBound(startStr, now)
	if err != nil {
		return schema.MonthRange{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := ParseMonthBound(endStr, now)
	if err != nil {
		return schema.MonthRange{}, fmt.Errorf("invalid --end: %w", err)
	}
	if start != "" && end != "" && start > end {
		return schema.MonthRange{}, fmt.Errorf("start month (%s) cannot be after end month (%s)", start, end)
	}
	return schema.MonthRange{Start: start, End: end}, nil
}

// RevalidateRange re-parses month bounds supplied outside of the CLI flags,
// such as MCP tool arguments or HTTP query parameters.
func RevalidateRange(cfg *Config, startStr, endStr string) error {
	r, err := parseMonthRange(startStr, endStr, time.Now())
	if err != nil {
		return err
	}
	cfg.Range = r
	return nil
}

// RevalidateInput re-resolves the input file supplied outside of the CLI arguments.
func RevalidateInput(cfg *Config, path string) error {
	return resolveInputPath(cfg, &ConfigRawInput{InputPathStr: path})
}

// processBucketPolicy applies config file overrides on top of the default bucketing policy.
func processBucketPolicy(cfg *Config, input *ConfigRawInput) error {
	policy := schema.DefaultBucketPolicy()
	if input.Bucketing.MaxMain != nil {
		policy.MaxMain = *input.Bucketing.MaxMain
	}
	if input.Bucketing.AlwaysMain != nil {
		policy.AlwaysMain = *input.Bucketing.AlwaysMain
	}
	if input.Bucketing.SmallShare != nil {
		policy.SmallShare = *input.Bucketing.SmallShare
	}

	if policy.MaxMain < 1 {
		return fmt.Errorf("bucketing.max_main must be at least 1 (received %d)", policy.MaxMain)
	}
	if policy.AlwaysMain < 0 || policy.AlwaysMain > policy.MaxMain {
		return fmt.Errorf("bucketing.always_main must be between 0 and max_main %d (received %d)", policy.MaxMain, policy.AlwaysMain)
	}
	if policy.SmallShare < 0 || policy.SmallShare >= 1 {
		return fmt.Errorf("bucketing.small_share must be in [0, 1) (received %.4f)", policy.SmallShare)
	}
	cfg.Policy = policy
	return nil
}

// processRemote validates the remote source settings. An empty URL disables the remote source.
func processRemote(cfg *Config, input *ConfigRawInput) error {
	remote := RemoteConfig{
		URL:   strings.TrimRight(strings.TrimSpace(input.Remote.URL), "/"),
		Key:   strings.TrimSpace(input.Remote.Key),
		Table: strings.TrimSpace(input.Remote.Table),
		Limit: input.Remote.Limit,
	}
	if remote.Table == "" {
		remote.Table = DefaultRemoteTable
	}
	if remote.Limit == 0 {
		remote.Limit = DefaultRemoteLimit
	}
	if remote.Limit < 0 || remote.Limit > MaxRemoteLimit {
		return fmt.Errorf("remote.limit must be between 1 and %d (received %d)", MaxRemoteLimit, remote.Limit)
	}
	if remote.URL != "" {
		u, err := url.Parse(remote.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("remote.url must be an absolute http(s) URL (received %q)", input.Remote.URL)
		}
	}
	cfg.Remote = remote
	return nil
}

// resolveInputPath makes the positional input file absolute and checks that it is a regular file.
func resolveInputPath(cfg *Config, input *ConfigRawInput) error {
	path := strings.TrimSpace(input.InputPathStr)
	if path == "" {
		cfg.InputPath = ""
		return nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input path %s is a directory", path)
	}
	cfg.InputPath = absPath
	return nil
}
