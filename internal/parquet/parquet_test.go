package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshscore/schema"
)

func sampleSeries() *schema.CutoffSeries {
	return &schema.CutoffSeries{
		Movie:       "Test Movie",
		ReleaseDate: time.Date(2022, time.May, 27, 0, 0, 0, 0, time.UTC),
		Points: []schema.CutoffPoint{
			{DayOffset: 0, DailyCount: 4, DailyFresh: 3, DailyPercentFresh: 75, CumulativeCount: 4, CumulativeFresh: 3, CumulativePercentFresh: 75},
			{DayOffset: 1, DailyCount: 3, DailyFresh: 2, DailyPercentFresh: 66.67, CumulativeCount: 7, CumulativeFresh: 5, CumulativePercentFresh: 71.43},
		},
	}
}

// TestConvertSeries verifies the flattening carries movie metadata onto
// every row.
func TestConvertSeries(t *testing.T) {
	rows := ConvertSeries(sampleSeries())
	require.Len(t, rows, 2)

	assert.Equal(t, "Test Movie", rows[0].Movie)
	assert.Equal(t, "Test Movie", rows[1].Movie)
	assert.Equal(t, int32(0), rows[0].DayOffset)
	assert.Equal(t, int32(7), rows[1].CumulativeCount)
	assert.InDelta(t, 71.43, rows[1].CumulativePercentFresh, 0.001)
}

// TestConvertSummaries verifies error rows become nullable Error fields.
func TestConvertSummaries(t *testing.T) {
	summaries := []schema.MovieSummary{
		{Movie: "Good", TotalCount: 7, FreshCount: 5, PercentFresh: 71.43},
		{Movie: "Bad", Err: "no reviews found in input"},
	}

	rows := ConvertSummaries(summaries)
	require.Len(t, rows, 2)

	assert.Nil(t, rows[0].Error)
	require.NotNil(t, rows[1].Error)
	assert.Equal(t, "no reviews found in input", *rows[1].Error)
}

// TestWriteSeriesParquetRoundTrip writes rows and reads them back.
func TestWriteSeriesParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.parquet")
	rows := ConvertSeries(sampleSeries())

	require.NoError(t, WriteSeriesParquet(rows, path))

	got, err := parquet.ReadFile[SeriesPoint](path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, rows[0].Movie, got[0].Movie)
	assert.Equal(t, rows[1].CumulativeCount, got[1].CumulativeCount)
	assert.InDelta(t, rows[1].CumulativePercentFresh, got[1].CumulativePercentFresh, 0.0001)
}

// TestWriteRunScoresParquet smoke-tests the history export writer.
func TestWriteRunScoresParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.parquet")
	rows := ConvertScoreRecords([]schema.ScoreRecord{
		{RunID: 1, Movie: "M", CutoffDay: 4, EffectiveDay: 4, PercentFresh: 80, FreshCount: 4, TotalCount: 5, RecordedAt: time.Now()},
	})

	require.NoError(t, WriteRunScoresParquet(rows, path))

	got, err := parquet.ReadFile[RunScore](path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].RunID)
	assert.Equal(t, int32(5), got[0].TotalCount)
}
