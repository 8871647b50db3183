// Package parquet provides data structures and functions for exporting
// cutoff scores to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"freshscore/schema"
)

// SeriesPoint is one day of a cutoff series flattened for Parquet export.
type SeriesPoint struct {
	// Movie is the display name of the movie
	Movie string `parquet:"movie,snappy"`

	// ReleaseDate is the theatrical release date (stored as TIMESTAMP)
	ReleaseDate time.Time `parquet:"release_date,snappy"`

	// DayOffset is the number of days since release
	DayOffset int32 `parquet:"day_offset,snappy"`

	// DailyCount is the number of reviews published on this day
	DailyCount int32 `parquet:"daily_count,snappy"`

	// DailyFresh is the number of fresh reviews published on this day
	DailyFresh int32 `parquet:"daily_fresh,snappy"`

	// DailyPercentFresh is the fresh percentage for this day alone
	DailyPercentFresh float64 `parquet:"daily_percent_fresh,snappy"`

	// CumulativeCount is the running review total through this day
	CumulativeCount int32 `parquet:"cumulative_count,snappy"`

	// CumulativeFresh is the running fresh total through this day
	CumulativeFresh int32 `parquet:"cumulative_fresh,snappy"`

	// CumulativePercentFresh is the running fresh percentage through this day
	CumulativePercentFresh float64 `parquet:"cumulative_percent_fresh,snappy"`
}

// MovieScore is one batch summary row flattened for Parquet export.
type MovieScore struct {
	// Movie is the display name of the movie
	Movie string `parquet:"movie,snappy"`

	// File is the review file the score was computed from
	File string `parquet:"file,snappy"`

	// ReleaseDate is the theatrical release date (stored as TIMESTAMP)
	ReleaseDate time.Time `parquet:"release_date,snappy"`

	// CutoffDay is the requested cutoff day
	CutoffDay int32 `parquet:"cutoff_day,snappy"`

	// EffectiveDay is the day actually used when data ends early
	EffectiveDay int32 `parquet:"effective_day,snappy"`

	// PercentFresh is the cumulative fresh percentage at the cutoff
	PercentFresh float64 `parquet:"percent_fresh,snappy"`

	// FreshCount is the cumulative fresh review count at the cutoff
	FreshCount int32 `parquet:"fresh_count,snappy"`

	// TotalCount is the cumulative review count at the cutoff
	TotalCount int32 `parquet:"total_count,snappy"`

	// Error holds the failure reason for files that could not be scored (nullable)
	Error *string `parquet:"error,optional,snappy"`
}

// RunScore is one persisted history score flattened for Parquet export.
type RunScore struct {
	// RunID references the parent batch run
	RunID int64 `parquet:"run_id,snappy"`

	// Movie is the display name of the movie
	Movie string `parquet:"movie,snappy"`

	// ReleaseDate is the theatrical release date (stored as TIMESTAMP)
	ReleaseDate time.Time `parquet:"release_date,snappy"`

	// CutoffDay is the requested cutoff day
	CutoffDay int32 `parquet:"cutoff_day,snappy"`

	// EffectiveDay is the day actually used when data ends early
	EffectiveDay int32 `parquet:"effective_day,snappy"`

	// PercentFresh is the cumulative fresh percentage at the cutoff
	PercentFresh float64 `parquet:"percent_fresh,snappy"`

	// FreshCount is the cumulative fresh review count at the cutoff
	FreshCount int32 `parquet:"fresh_count,snappy"`

	// TotalCount is the cumulative review count at the cutoff
	TotalCount int32 `parquet:"total_count,snappy"`

	// RecordedAt is when the score was persisted (stored as TIMESTAMP)
	RecordedAt time.Time `parquet:"recorded_at,snappy"`
}

// WriteSeriesParquet writes a slice of SeriesPoint structs to a Parquet file.
func WriteSeriesParquet(data []SeriesPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteMovieScoresParquet writes a slice of MovieScore structs to a Parquet file.
func WriteMovieScoresParquet(data []MovieScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunScoresParquet writes a slice of RunScore structs to a Parquet file.
func WriteRunScoresParquet(data []RunScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet creates the output file and writes all records using struct
// schema inference from the parquet tags.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertSeries converts a schema.CutoffSeries to SeriesPoint rows for Parquet export.
func ConvertSeries(series *schema.CutoffSeries) []SeriesPoint {
	result := make([]SeriesPoint, len(series.Points))
	for i, p := range series.Points {
		result[i] = SeriesPoint{
			Movie:                  series.Movie,
			ReleaseDate:            series.ReleaseDate,
			DayOffset:              int32(p.DayOffset),
			DailyCount:             int32(p.DailyCount),
			DailyFresh:             int32(p.DailyFresh),
			DailyPercentFresh:      p.DailyPercentFresh,
			CumulativeCount:        int32(p.CumulativeCount),
			CumulativeFresh:        int32(p.CumulativeFresh),
			CumulativePercentFresh: p.CumulativePercentFresh,
		}
	}
	return result
}

// ConvertSummaries converts schema.MovieSummary rows to MovieScore for Parquet export.
func ConvertSummaries(summaries []schema.MovieSummary) []MovieScore {
	result := make([]MovieScore, len(summaries))
	for i, s := range summaries {
		row := MovieScore{
			Movie:        s.Movie,
			File:         s.File,
			ReleaseDate:  s.ReleaseDate,
			CutoffDay:    int32(s.CutoffDay),
			EffectiveDay: int32(s.EffectiveDay),
			PercentFresh: s.PercentFresh,
			FreshCount:   int32(s.FreshCount),
			TotalCount:   int32(s.TotalCount),
		}
		if s.Err != "" {
			errCopy := s.Err
			row.Error = &errCopy
		}
		result[i] = row
	}
	return result
}

// ConvertScoreRecords converts schema.ScoreRecord rows to RunScore for Parquet export.
func ConvertScoreRecords(records []schema.ScoreRecord) []RunScore {
	result := make([]RunScore, len(records))
	for i, r := range records {
		result[i] = RunScore{
			RunID:        r.RunID,
			Movie:        r.Movie,
			ReleaseDate:  r.ReleaseDate,
			CutoffDay:    int32(r.CutoffDay),
			EffectiveDay: int32(r.EffectiveDay),
			PercentFresh: r.PercentFresh,
			FreshCount:   int32(r.FreshCount),
			TotalCount:   int32(r.TotalCount),
			RecordedAt:   r.RecordedAt,
		}
	}
	return result
}
