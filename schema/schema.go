// Package schema has configs, models and global variables for all parts of freshscore.
package schema

import "time"

// Review represents a single critic review scraped from a reviews page or
// read back from a saved CSV file. Rows are immutable once read.
type Review struct {
	Critic        string    // Critic display name ("Unknown" when missing)
	Publication   string    // Publication name ("Unknown" when missing)
	Text          string    // Review excerpt text
	Sentiment     Sentiment // fresh or rotten verdict
	OriginalScore string    // Publication's own score, e.g. "3/4" (may be empty)
	RawDate       string    // Date string exactly as it appeared on the page
	Date          time.Time // Parsed review date (zero when RawDate was unparseable)
	URL           string    // Link to the full review (may be empty)
}

// HasDate reports whether the review date was successfully parsed.
func (r *Review) HasDate() bool {
	return !r.Date.IsZero()
}

// IsFresh reports whether the review counts as positive.
func (r *Review) IsFresh() bool {
	return r.Sentiment == FreshSentiment
}

// CutoffPoint is a single day in a cutoff series. The series is dense: days
// with no reviews have zero daily counts but carry the cumulative values of
// the previous day forward.
type CutoffPoint struct {
	DayOffset              int     `json:"day_offset"`
	DailyCount             int     `json:"daily_count"`
	DailyFresh             int     `json:"daily_fresh"`
	DailyPercentFresh      float64 `json:"daily_percent_fresh"`
	CumulativeCount        int     `json:"cumulative_count"`
	CumulativeFresh        int     `json:"cumulative_fresh"`
	CumulativePercentFresh float64 `json:"cumulative_percent_fresh"`
}

// CutoffSeries holds the per-day cumulative score trajectory for one movie.
type CutoffSeries struct {
	Movie       string        `json:"movie"`
	ReleaseDate time.Time     `json:"release_date"`
	Points      []CutoffPoint `json:"points"`
	SkippedRows int           `json:"skipped_rows"` // Rows dropped for unparseable dates
	Excluded    int           `json:"excluded"`     // Pre-release reviews dropped by policy
}

// MaxDayOffset returns the largest day offset present in the series.
func (s *CutoffSeries) MaxDayOffset() int {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].DayOffset
}

// Final returns the last point of the series, covering all counted reviews.
func (s *CutoffSeries) Final() CutoffPoint {
	if len(s.Points) == 0 {
		return CutoffPoint{}
	}
	return s.Points[len(s.Points)-1]
}

// MovieSummary is one row of a batch run: the cutoff score for a single
// movie, or the error that prevented computing it.
type MovieSummary struct {
	Movie        string    `json:"movie"`
	File         string    `json:"file"`
	ReleaseDate  time.Time `json:"release_date"`
	CutoffDay    int       `json:"cutoff_day"`
	EffectiveDay int       `json:"effective_day"` // Day actually used (≤ CutoffDay when data ends early)
	PercentFresh float64   `json:"percent_fresh"`
	FreshCount   int       `json:"fresh_count"`
	TotalCount   int       `json:"total_count"`
	SkippedRows  int       `json:"skipped_rows"`
	Err          string    `json:"error,omitempty"`
}

// Failed reports whether this movie could not be scored.
func (m *MovieSummary) Failed() bool {
	return m.Err != ""
}

// BatchResult aggregates the per-movie summaries of one batch run.
type BatchResult struct {
	CutoffDay int            `json:"cutoff_day"`
	Summaries []MovieSummary `json:"summaries"`
	Failures  int            `json:"failures"`
}

// RunRecord describes one recorded batch run in the history store.
type RunRecord struct {
	RunID      int64      `json:"run_id"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	CutoffDay  int        `json:"cutoff_day"`
	TotalFiles int        `json:"total_files"`
	Failures   int        `json:"failures"`
}

// ScoreRecord is one per-movie cutoff score persisted by the history store.
type ScoreRecord struct {
	RunID        int64     `json:"run_id"`
	Movie        string    `json:"movie"`
	ReleaseDate  time.Time `json:"release_date"`
	CutoffDay    int       `json:"cutoff_day"`
	EffectiveDay int       `json:"effective_day"`
	PercentFresh float64   `json:"percent_fresh"`
	FreshCount   int       `json:"fresh_count"`
	TotalCount   int       `json:"total_count"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// HistoryStatus holds status information about the history store.
type HistoryStatus struct {
	Backend   string    `json:"backend"`
	Connected bool      `json:"connected"`
	TotalRuns int       `json:"total_runs"`
	LastRun   time.Time `json:"last_run,omitzero"`
}
