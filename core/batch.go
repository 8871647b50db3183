package core

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"freshscore/internal/contract"
	"freshscore/internal/reviewio"
	"freshscore/schema"
)

// listReviewFiles returns the CSV files under dir, sorted by name.
func listReviewFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list review files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// scoreFile computes the cutoff score for one review file. Errors are folded
// into the summary so a batch run never aborts on a single bad file.
func scoreFile(cfg *contract.Config, path string) schema.MovieSummary {
	summary := schema.MovieSummary{
		File:      filepath.Base(path),
		Movie:     contract.ExtractMovieName(path),
		CutoffDay: cfg.CutoffDay,
	}

	releaseDate, err := contract.ExtractReleaseDate(path)
	if err != nil {
		summary.Err = ErrNoRelease.Error()
		return summary
	}
	summary.ReleaseDate = releaseDate

	reviews, err := reviewio.ReadReviews(path, cfg.DateColumn, cfg.SentimentColumn)
	if err != nil {
		summary.Err = err.Error()
		return summary
	}

	series, err := BuildCutoffSeries(summary.Movie, releaseDate, reviews, cfg.PreRelease)
	if err != nil {
		summary.Err = err.Error()
		return summary
	}

	point, effective := ScoreAtCutoff(series, cfg.CutoffDay)
	summary.EffectiveDay = effective
	summary.PercentFresh = point.CumulativePercentFresh
	summary.FreshCount = point.CumulativeFresh
	summary.TotalCount = point.CumulativeCount
	summary.SkippedRows = series.SkippedRows
	return summary
}

// scoreBatch processes all files in parallel using a worker pool.
// It spawns cfg.Workers goroutines and aggregates their summaries into a
// single BatchResult sorted by movie name.
func scoreBatch(ctx context.Context, cfg *contract.Config, files []string) *schema.BatchResult {
	fileCh := make(chan string, len(files))
	summaryCh := make(chan schema.MovieSummary, len(files))
	var wg sync.WaitGroup

	for range cfg.Workers {
		wg.Go(func() {
			for f := range fileCh {
				select {
				case <-ctx.Done():
					summaryCh <- schema.MovieSummary{
						File:  filepath.Base(f),
						Movie: contract.ExtractMovieName(f),
						Err:   ctx.Err().Error(),
					}
				default:
					summaryCh <- scoreFile(cfg, f)
				}
			}
		})
	}

	for _, f := range files {
		fileCh <- f
	}
	close(fileCh)

	wg.Wait()
	close(summaryCh)

	result := &schema.BatchResult{CutoffDay: cfg.CutoffDay}
	for s := range summaryCh {
		if s.Failed() {
			result.Failures++
		}
		result.Summaries = append(result.Summaries, s)
	}
	sort.Slice(result.Summaries, func(i, j int) bool {
		return result.Summaries[i].Movie < result.Summaries[j].Movie
	})
	return result
}

// recordBatchRun persists a batch result to the history store. Store
// failures are warnings only so scoring output is never lost.
func recordBatchRun(store contract.HistoryStore, result *schema.BatchResult, startTime time.Time) {
	if store == nil {
		return
	}

	runID, err := store.BeginRun(startTime, result.CutoffDay)
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return
	}

	for _, s := range result.Summaries {
		if s.Failed() {
			continue
		}
		if err := store.RecordScore(runID, s); err != nil {
			contract.LogWarn(fmt.Sprintf("Failed to record score for %s", s.Movie), err)
		}
	}

	if err := store.EndRun(runID, time.Now(), len(result.Summaries), result.Failures); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}
