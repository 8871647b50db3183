package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"freshscore/internal/contract"
	"freshscore/internal/parquet"
	"freshscore/schema"
)

// PrintBatchResult outputs batch summaries, dispatching based on the output format configured.
func PrintBatchResult(result *schema.BatchResult, cfg *contract.Config, duration time.Duration) error {
	if err := requireParquetFile(cfg); err != nil {
		return err
	}

	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForBatch(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForBatch(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteMovieScoresParquet(parquet.ConvertSummaries(result.Summaries), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet batch results to %s\n", cfg.OutputFile)
	default:
		if err := printBatchTable(result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing batch table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForBatch handles opening the file and calling the JSON writer.
func printJSONResultsForBatch(result *schema.BatchResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON batch results")
}

// batchCSVHeader lists the columns of the batch summary CSV.
var batchCSVHeader = []string{
	"movie", "file", "release_date", "cutoff_day", "effective_day",
	"percent_fresh", "fresh_count", "total_count", "skipped_rows", "error",
}

// printCSVResultsForBatch handles opening the file and calling the CSV writer.
func printCSVResultsForBatch(result *schema.BatchResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, batchCSVHeader, func(cw *csv.Writer) error {
			for _, s := range result.Summaries {
				releaseDate := ""
				if !s.ReleaseDate.IsZero() {
					releaseDate = s.ReleaseDate.Format(contract.ReleaseDateFormat)
				}
				row := []string{
					s.Movie,
					s.File,
					releaseDate,
					strconv.Itoa(s.CutoffDay),
					strconv.Itoa(s.EffectiveDay),
					fmtFloat(s.PercentFresh),
					strconv.Itoa(s.FreshCount),
					strconv.Itoa(s.TotalCount),
					strconv.Itoa(s.SkippedRows),
					s.Err,
				}
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
			return nil
		})
	}, "Wrote CSV batch results")
}

// printBatchTable prints the per-movie summaries in a table with failure
// rows marked, followed by a completion line.
func printBatchTable(result *schema.BatchResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	fmt.Printf("🍅 Batch scores at day %d cutoff\n", result.CutoffDay)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Movie", "Released", "Day", "Score", "Verdict", "Fresh", "Total"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableTextWidth(cfg)
	var data [][]string
	for _, s := range result.Summaries {
		if s.Failed() {
			data = append(data, []string{
				contract.TruncateText(s.Movie, maxWidth),
				"-", "-", "-",
				"FAILED",
				"-", "-",
			})
			continue
		}
		data = append(data, []string{
			contract.TruncateText(s.Movie, maxWidth),
			s.ReleaseDate.Format(contract.ReleaseDateFormat),
			strconv.Itoa(s.EffectiveDay),
			fmtFloat(s.PercentFresh),
			scoreLabel(s.PercentFresh, cfg),
			strconv.Itoa(s.FreshCount),
			strconv.Itoa(s.TotalCount),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if result.Failures > 0 {
		fmt.Printf("⚠️ %d of %d files failed\n", result.Failures, len(result.Summaries))
		for _, s := range result.Summaries {
			if s.Failed() {
				fmt.Printf("   %s: %s\n", s.File, s.Err)
			}
		}
	}

	fmt.Printf("Batch scoring completed in %v with %d workers\n", duration, cfg.Workers)
	return nil
}
