// Package core has core logic for scoring, batching and scrape orchestration.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"freshscore/internal/contract"
	"freshscore/internal/outwriter"
	"freshscore/internal/reviewio"
	"freshscore/internal/scraper"
	"freshscore/schema"
)

// ExecutorFunc defines the function signature for executing commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// writer dispatches all user-facing output to the configured format.
var writer = outwriter.NewOutWriter()

// GetCutoffResult computes the cutoff series and score for a single review
// file. This is the data entry point shared by the CLI and the MCP server.
func GetCutoffResult(cfg *contract.Config) (*schema.CutoffSeries, schema.CutoffPoint, int, error) {
	movie, releaseDate, err := resolveMovieMeta(cfg, cfg.InputFile)
	if err != nil {
		return nil, schema.CutoffPoint{}, 0, err
	}

	reviews, err := reviewio.ReadReviews(cfg.InputFile, cfg.DateColumn, cfg.SentimentColumn)
	if err != nil {
		return nil, schema.CutoffPoint{}, 0, err
	}

	series, err := BuildCutoffSeries(movie, releaseDate, reviews, cfg.PreRelease)
	if err != nil {
		return nil, schema.CutoffPoint{}, 0, fmt.Errorf("%s: %w", cfg.InputFile, err)
	}

	point, effective := ScoreAtCutoff(series, cfg.CutoffDay)
	return series, point, effective, nil
}

// ExecuteCutoff scores a single review file at the configured cutoff day.
// It serves as the main entry point for the 'cutoff' command.
func ExecuteCutoff(_ context.Context, cfg *contract.Config) error {
	start := time.Now()

	series, point, effective, err := GetCutoffResult(cfg)
	if err != nil {
		return err
	}

	if cfg.SeriesFile != "" {
		if err := outwriter.WriteSeriesCSVFile(cfg.SeriesFile, series); err != nil {
			return err
		}
	}

	return writer.WriteCutoff(series, point, effective, cfg, time.Since(start))
}

// GetBatchResult scores every review file in a directory using a worker
// pool. This is the data entry point shared by the CLI and the MCP server.
func GetBatchResult(ctx context.Context, cfg *contract.Config) (*schema.BatchResult, error) {
	files, err := listReviewFiles(cfg.CSVDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no review files found in %s", cfg.CSVDir)
	}
	return scoreBatch(ctx, cfg, files), nil
}

// ExecuteBatch scores every review file in a directory, records the run in
// the history store, and prints the per-movie summaries.
func ExecuteBatch(ctx context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	start := time.Now()

	result, err := GetBatchResult(ctx, cfg)
	if err != nil {
		return err
	}
	recordBatchRun(store, result, start)

	return writer.WriteBatch(result, cfg, time.Since(start))
}

// ExecuteScrape downloads reviews for one or more movie pages and saves each
// set as a CSV file. A failed URL is reported and skipped so the rest of the
// list still completes.
func ExecuteScrape(ctx context.Context, cfg *contract.Config) error {
	urls, err := collectScrapeURLs(cfg)
	if err != nil {
		return err
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	sc := scraper.New(scraper.Options{
		MinDelay:   cfg.MinDelay,
		MaxDelay:   cfg.MaxDelay,
		MaxPages:   cfg.MaxPages,
		MaxReviews: cfg.MaxReviews,
	})

	failures := 0
	for i, url := range urls {
		fmt.Printf("🎬 [%d/%d] Scraping %s\n", i+1, len(urls), url)

		res, err := sc.ScrapeMovie(ctx, url)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Scrape failed for %s", url), err)
			failures++
			continue
		}

		movie := res.Movie
		if cfg.Movie != "" && len(urls) == 1 {
			movie = cfg.Movie
		}
		releaseDate := res.ReleaseDate
		if !cfg.ReleaseDate.IsZero() && len(urls) == 1 {
			releaseDate = cfg.ReleaseDate
		}

		path := filepath.Join(cfg.OutputDir, contract.BuildReviewFilename(movie, releaseDate, time.Now()))
		if err := reviewio.SaveReviews(path, res.Reviews); err != nil {
			contract.LogWarn(fmt.Sprintf("Save failed for %s", movie), err)
			failures++
			continue
		}

		fmt.Printf("✅ %s: %d reviews across %d pages -> %s\n", movie, len(res.Reviews), res.Pages, path)
	}

	if failures == len(urls) {
		return errors.New("all scrape targets failed")
	}
	if failures > 0 {
		fmt.Printf("⚠️ Completed with %d of %d targets failed\n", failures, len(urls))
	}
	return nil
}

// ExecuteHistory lists recorded batch runs, or the per-movie scores of one
// run when runID is set.
func ExecuteHistory(cfg *contract.Config, store contract.HistoryStore, runID int64, limit int) error {
	if runID > 0 {
		scores, err := store.ListScores(runID)
		if err != nil {
			return err
		}
		if len(scores) == 0 {
			return fmt.Errorf("no scores recorded for run %d", runID)
		}
		return writer.WriteScores(scores, cfg)
	}

	runs, err := store.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No batch runs recorded yet.")
		return nil
	}
	return writer.WriteRuns(runs, cfg)
}

// ExecuteStatus prints status information about the history store.
func ExecuteStatus(cfg *contract.Config, store contract.HistoryStore) error {
	status, err := store.GetStatus()
	if err != nil {
		return err
	}
	return writer.WriteStatus(status, cfg)
}

// ExecuteExport writes the per-movie scores of a recorded run in the
// configured output format. A zero runID exports the most recent run.
func ExecuteExport(cfg *contract.Config, store contract.HistoryStore, runID int64) error {
	if runID == 0 {
		runs, err := store.ListRuns(1)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return errors.New("no batch runs recorded yet")
		}
		runID = runs[0].RunID
	}

	scores, err := store.ListScores(runID)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		return fmt.Errorf("no scores recorded for run %d", runID)
	}
	return writer.WriteScores(scores, cfg)
}

// resolveMovieMeta determines the movie name and release date for a review
// file, preferring explicit config overrides over filename-derived values.
func resolveMovieMeta(cfg *contract.Config, path string) (string, time.Time, error) {
	movie := cfg.Movie
	if movie == "" {
		movie = contract.ExtractMovieName(path)
	}

	releaseDate := cfg.ReleaseDate
	if releaseDate.IsZero() {
		derived, err := contract.ExtractReleaseDate(path)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("%w: pass --release-date or use a filename like Movie_2022-05-27_20250531_235717.csv", ErrNoRelease)
		}
		releaseDate = derived
	}

	return movie, releaseDate, nil
}

// collectScrapeURLs gathers the target URLs from the positional argument or
// the URL list file.
func collectScrapeURLs(cfg *contract.Config) ([]string, error) {
	if cfg.URLFile != "" {
		urls, err := scraper.ReadURLList(cfg.URLFile)
		if err != nil {
			return nil, err
		}
		if len(urls) == 0 {
			return nil, fmt.Errorf("no URLs found in %s", cfg.URLFile)
		}
		return urls, nil
	}
	if cfg.ScrapeURL == "" {
		return nil, errors.New("a movie URL or --url-file is required")
	}
	return []string{scraper.EnsureReviewsSuffix(cfg.ScrapeURL)}, nil
}

// Interface compliance checks.
var (
	_ ExecutorFunc = ExecuteCutoff
	_ ExecutorFunc = ExecuteScrape
)
