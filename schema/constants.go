package schema

import "strings"

// Custom string types for type safety.
type (
	// Sentiment classifies a review as positive or negative.
	Sentiment string

	// OutputMode represents the format of the output.
	OutputMode string

	// PreReleasePolicy decides what happens to reviews dated before release.
	PreReleasePolicy string

	// DatabaseBackend represents the database backend for the history store.
	DatabaseBackend string
)

// All sentiments supported.
const (
	FreshSentiment   Sentiment = "fresh"
	RottenSentiment  Sentiment = "rotten"
	UnknownSentiment Sentiment = "unknown"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All pre-release policies supported. Reviews published before the release
// date are either dropped entirely or counted as day-zero reviews. The choice
// is always explicit so two runs over the same data cannot silently disagree.
const (
	ExcludePreRelease PreReleasePolicy = "exclude" // default
	ClampPreRelease   PreReleasePolicy = "clamp"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidPreReleasePolicies lists all valid pre-release policies.
var ValidPreReleasePolicies = map[PreReleasePolicy]struct{}{
	ExcludePreRelease: {},
	ClampPreRelease:   {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ParseSentiment normalizes a raw sentiment or score string from the site or
// a CSV column into a Sentiment. The site uses POSITIVE/NEGATIVE attributes
// while older CSV exports carry fresh/rotten.
func ParseSentiment(raw string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fresh", "positive":
		return FreshSentiment
	case "rotten", "negative":
		return RottenSentiment
	default:
		return UnknownSentiment
	}
}
