// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"freshscore/schema"
)

// HistoryStore defines the interface for recording batch runs and their
// per-movie cutoff scores. This allows the store to be mocked for testing.
type HistoryStore interface {
	// BeginRun creates a new batch run and returns its unique ID.
	BeginRun(startTime time.Time, cutoffDay int) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, totalFiles, failures int) error

	// RecordScore stores a per-movie cutoff score.
	RecordScore(runID int64, summary schema.MovieSummary) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// ListScores returns the scores recorded for a run.
	ListScores(runID int64) ([]schema.ScoreRecord, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}
