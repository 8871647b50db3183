package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshscore/internal/contract"
	"freshscore/schema"
)

const goodCSV = `Critic,Publication,Sentiment,Original Score,Date,Review Text,URL
A,P1,fresh,,"May 27, 2022",Good.,
B,P2,fresh,,"May 27, 2022",Good.,
C,P3,fresh,,"May 27, 2022",Good.,
D,P4,rotten,,"May 27, 2022",Bad.,
E,P5,fresh,,"May 28, 2022",Good.,
F,P6,fresh,,"May 28, 2022",Good.,
G,P7,rotten,,"May 28, 2022",Bad.,
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func batchConfig() *contract.Config {
	return &contract.Config{
		CutoffDay:  1,
		PreRelease: schema.ExcludePreRelease,
		Precision:  2,
		Workers:    2,
	}
}

// TestScoreFile scores a single well-formed fixture end to end.
func TestScoreFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "Top_Gun_Maverick_2022-05-27_20250531_235717.csv", goodCSV)

	summary := scoreFile(batchConfig(), path)

	require.False(t, summary.Failed(), "unexpected error: %s", summary.Err)
	assert.Equal(t, "Top Gun Maverick", summary.Movie)
	assert.Equal(t, "2022-05-27", summary.ReleaseDate.Format(contract.ReleaseDateFormat))
	assert.Equal(t, 1, summary.EffectiveDay)
	assert.Equal(t, 7, summary.TotalCount)
	assert.Equal(t, 5, summary.FreshCount)
	assert.InDelta(t, 71.4285, summary.PercentFresh, 0.001)
}

// TestScoreFileFailures verifies bad files produce summaries, not panics.
func TestScoreFileFailures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		errSub  string
	}{
		{
			name:    "no release date in filename",
			file:    "reviews.csv",
			content: goodCSV,
			errSub:  "release date",
		},
		{
			name:    "empty file",
			file:    "Empty_Movie_2022-01-01_20250101_000000.csv",
			content: "",
			errSub:  "empty",
		},
		{
			name:    "header only",
			file:    "Header_Only_2022-01-01_20250101_000000.csv",
			content: "Critic,Sentiment,Date\n",
			errSub:  "no reviews",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, dir, tt.file, tt.content)
			summary := scoreFile(batchConfig(), path)
			require.True(t, summary.Failed())
			assert.Contains(t, summary.Err, tt.errSub)
		})
	}
}

// TestScoreBatch runs the worker pool over a mixed directory: good files
// are scored, bad files are reported as failures, and the batch completes.
func TestScoreBatch(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "Alpha_2022-05-27_20250531_000000.csv", goodCSV)
	writeFixture(t, dir, "Beta_2022-05-27_20250531_000000.csv", goodCSV)
	writeFixture(t, dir, "Broken_2022-05-27_20250531_000000.csv", "not,a,review\nfile,,\n")

	files, err := listReviewFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	result := scoreBatch(context.Background(), batchConfig(), files)

	assert.Equal(t, 1, result.Failures)
	require.Len(t, result.Summaries, 3)
	// Sorted by movie name
	assert.Equal(t, "Alpha", result.Summaries[0].Movie)
	assert.Equal(t, "Beta", result.Summaries[1].Movie)
	assert.Equal(t, "Broken", result.Summaries[2].Movie)
	assert.True(t, result.Summaries[2].Failed())
	assert.InDelta(t, 71.4285, result.Summaries[0].PercentFresh, 0.001)
}

// mockHistoryStore records calls for assertion.
type mockHistoryStore struct {
	runID    int64
	began    bool
	ended    bool
	scores   []schema.MovieSummary
	beginErr error
}

func (m *mockHistoryStore) BeginRun(_ time.Time, _ int) (int64, error) {
	if m.beginErr != nil {
		return 0, m.beginErr
	}
	m.began = true
	m.runID = 42
	return m.runID, nil
}

func (m *mockHistoryStore) EndRun(_ int64, _ time.Time, _, _ int) error {
	m.ended = true
	return nil
}

func (m *mockHistoryStore) RecordScore(_ int64, summary schema.MovieSummary) error {
	m.scores = append(m.scores, summary)
	return nil
}

func (m *mockHistoryStore) ListRuns(_ int) ([]schema.RunRecord, error)       { return nil, nil }
func (m *mockHistoryStore) ListScores(_ int64) ([]schema.ScoreRecord, error) { return nil, nil }
func (m *mockHistoryStore) GetStatus() (schema.HistoryStatus, error)         { return schema.HistoryStatus{}, nil }
func (m *mockHistoryStore) Close() error                                     { return nil }

// TestRecordBatchRun verifies failed summaries are not persisted as scores.
func TestRecordBatchRun(t *testing.T) {
	store := &mockHistoryStore{}
	result := &schema.BatchResult{
		CutoffDay: 1,
		Failures:  1,
		Summaries: []schema.MovieSummary{
			{Movie: "Good", TotalCount: 5},
			{Movie: "Bad", Err: "no reviews found in input"},
		},
	}

	recordBatchRun(store, result, time.Now())

	assert.True(t, store.began)
	assert.True(t, store.ended)
	require.Len(t, store.scores, 1)
	assert.Equal(t, "Good", store.scores[0].Movie)
}

// TestRecordBatchRunNilStore ensures a disabled store is a no-op.
func TestRecordBatchRunNilStore(t *testing.T) {
	assert.NotPanics(t, func() {
		recordBatchRun(nil, &schema.BatchResult{}, time.Now())
	})
}
