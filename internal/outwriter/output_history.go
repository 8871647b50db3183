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

// PrintRuns outputs recorded batch runs, dispatching based on the output format configured.
func PrintRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON run history")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsCSV(w, runs)
		}, "Wrote CSV run history")
	default:
		return printRunsTable(runs)
	}
}

var runsCSVHeader = []string{"run_id", "start_time", "end_time", "cutoff_day", "total_files", "failures"}

func writeRunsCSV(w io.Writer, runs []schema.RunRecord) error {
	return writeCSVWithHeader(w, runsCSVHeader, func(cw *csv.Writer) error {
		for _, r := range runs {
			endTime := ""
			if r.EndTime != nil {
				endTime = r.EndTime.Format(time.RFC3339)
			}
			row := []string{
				strconv.FormatInt(r.RunID, 10),
				r.StartTime.Format(time.RFC3339),
				endTime,
				strconv.Itoa(r.CutoffDay),
				strconv.Itoa(r.TotalFiles),
				strconv.Itoa(r.Failures),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func printRunsTable(runs []schema.RunRecord) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Run", "Started", "Duration", "Cutoff Day", "Files", "Failures"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		duration := "running"
		if r.EndTime != nil {
			duration = r.EndTime.Sub(r.StartTime).Round(time.Millisecond).String()
		}
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.StartTime.Format("2006-01-02 15:04:05"),
			duration,
			strconv.Itoa(r.CutoffDay),
			strconv.Itoa(r.TotalFiles),
			strconv.Itoa(r.Failures),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// PrintScores outputs recorded per-movie scores, dispatching based on the output format configured.
func PrintScores(scores []schema.ScoreRecord, cfg *contract.Config) error {
	if err := requireParquetFile(cfg); err != nil {
		return err
	}

	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, scores)
		}, "Wrote JSON run scores")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoresCSV(w, scores, fmtFloat)
		}, "Wrote CSV run scores")
	case schema.ParquetOut:
		if err := parquet.WriteRunScoresParquet(parquet.ConvertScoreRecords(scores), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet run scores to %s\n", cfg.OutputFile)
		return nil
	default:
		return printScoresTable(scores, cfg, fmtFloat)
	}
}

var scoresCSVHeader = []string{
	"run_id", "movie", "release_date", "cutoff_day", "effective_day",
	"percent_fresh", "fresh_count", "total_count", "recorded_at",
}

func writeScoresCSV(w io.Writer, scores []schema.ScoreRecord, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, scoresCSVHeader, func(cw *csv.Writer) error {
		for _, s := range scores {
			row := []string{
				strconv.FormatInt(s.RunID, 10),
				s.Movie,
				s.ReleaseDate.Format(contract.ReleaseDateFormat),
				strconv.Itoa(s.CutoffDay),
				strconv.Itoa(s.EffectiveDay),
				fmtFloat(s.PercentFresh),
				strconv.Itoa(s.FreshCount),
				strconv.Itoa(s.TotalCount),
				s.RecordedAt.Format(time.RFC3339),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

func printScoresTable(scores []schema.ScoreRecord, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Run", "Movie", "Released", "Day", "Score", "Verdict", "Fresh", "Total"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableTextWidth(cfg)
	var data [][]string
	for _, s := range scores {
		data = append(data, []string{
			strconv.FormatInt(s.RunID, 10),
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
	return table.Render()
}

// PrintHistoryStatus prints status information about the history store.
func PrintHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON history status")
	}

	connected := "no"
	if status.Connected {
		connected = "yes"
	}
	fmt.Printf("Backend:    %s\n", status.Backend)
	fmt.Printf("Connected:  %s\n", connected)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	if !status.LastRun.IsZero() {
		fmt.Printf("Last run:   %s\n", status.LastRun.Format("2006-01-02 15:04:05"))
	}
	return nil
}
