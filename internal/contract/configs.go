package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"freshscore/schema"
)

// Default values for configuration.
const (
	DefaultCutoffDay = 4
	MaxCutoffDay     = 3650
	DefaultPrecision = 2
	DefaultMaxPages  = 25
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ReleaseDateFormat is the canonical release date representation, used on the
// command line, in filenames and in the history store.
const ReleaseDateFormat = "2006-01-02"

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	InputFile   string    // Single review CSV for the cutoff command
	CSVDir      string    // Directory of review CSVs for the batch command
	Movie       string    // Movie name override (otherwise derived from filename)
	ReleaseDate time.Time // Release date (zero = derive from filename)
	CutoffDay   int
	PreRelease  schema.PreReleasePolicy

	DateColumn      string // CSV column holding the review date
	SentimentColumn string // CSV column holding the verdict ("" = auto-detect)

	SeriesFile string // Optional path to write the per-day series CSV
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Workers    int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// Scrape settings
	ScrapeURL  string
	URLFile    string
	OutputDir  string
	MaxReviews int
	MaxPages   int
	MinDelay   time.Duration
	MaxDelay   time.Duration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	InputFileStr string
	CSVDirStr    string
	ScrapeURLStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Movie            string `mapstructure:"movie"`
	ReleaseDate      string `mapstructure:"release-date"`
	CutoffDay        int    `mapstructure:"cutoff-day"`
	PreRelease       string `mapstructure:"pre-release"`
	DateColumn       string `mapstructure:"date-column"`
	SentimentColumn  string `mapstructure:"sentiment-column"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Workers          int    `mapstructure:"workers"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from cutoffCmd.Flags() ---
	SeriesFile string `mapstructure:"series-file"`

	// --- Fields from scrapeCmd.Flags() ---
	URLFile    string `mapstructure:"url-file"`
	OutputDir  string `mapstructure:"output-dir"`
	MaxReviews int    `mapstructure:"max-reviews"`
	MaxPages   int    `mapstructure:"max-pages"`
	MinDelay   string `mapstructure:"min-delay"`
	MaxDelay   string `mapstructure:"max-delay"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processReleaseDate(cfg, input); err != nil {
		return err
	}
	if err := processScrapeInputs(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-date fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.InputFile = input.InputFileStr
	cfg.CSVDir = input.CSVDirStr
	cfg.Movie = strings.TrimSpace(input.Movie)
	cfg.DateColumn = input.DateColumn
	cfg.SentimentColumn = input.SentimentColumn
	cfg.SeriesFile = input.SeriesFile
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. CutoffDay Validation ---
	if input.CutoffDay < 0 || input.CutoffDay > MaxCutoffDay {
		return fmt.Errorf("cutoff-day must be between 0 and %d (received %d)", MaxCutoffDay, input.CutoffDay)
	}
	cfg.CutoffDay = input.CutoffDay

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. PreRelease Validation ---
	cfg.PreRelease = schema.PreReleasePolicy(strings.ToLower(input.PreRelease))
	if _, ok := schema.ValidPreReleasePolicies[cfg.PreRelease]; !ok {
		return fmt.Errorf("invalid pre-release policy '%s'. must be exclude or clamp", input.PreRelease)
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 5. Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	return nil
}

// processReleaseDate parses the optional release date override.
func processReleaseDate(cfg *Config, input *ConfigRawInput) error {
	if input.ReleaseDate == "" {
		return nil
	}
	t, err := time.Parse(ReleaseDateFormat, input.ReleaseDate)
	if err != nil {
		return fmt.Errorf("invalid release date '%s'. Expected %s: %w", input.ReleaseDate, ReleaseDateFormat, err)
	}
	cfg.ReleaseDate = t
	return nil
}

// processScrapeInputs validates the scrape-specific parameters.
func processScrapeInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.ScrapeURL = strings.TrimSpace(input.ScrapeURLStr)
	cfg.URLFile = strings.TrimSpace(input.URLFile)
	cfg.OutputDir = input.OutputDir
	cfg.MaxReviews = input.MaxReviews
	cfg.MaxPages = input.MaxPages

	if cfg.MaxPages <= 0 {
		return fmt.Errorf("max-pages must be greater than 0 (received %d)", cfg.MaxPages)
	}
	if cfg.MaxReviews < 0 {
		return fmt.Errorf("max-reviews cannot be negative (received %d)", cfg.MaxReviews)
	}

	minDelay, err := time.ParseDuration(input.MinDelay)
	if err != nil {
		return fmt.Errorf("invalid min-delay '%s': %w", input.MinDelay, err)
	}
	maxDelay, err := time.ParseDuration(input.MaxDelay)
	if err != nil {
		return fmt.Errorf("invalid max-delay '%s': %w", input.MaxDelay, err)
	}
	if minDelay < 0 || maxDelay < minDelay {
		return fmt.Errorf("delays must satisfy 0 <= min-delay <= max-delay (received %s and %s)", minDelay, maxDelay)
	}
	cfg.MinDelay = minDelay
	cfg.MaxDelay = maxDelay

	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
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
