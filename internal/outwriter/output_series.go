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

// cutoffOutput is the JSON envelope for a single cutoff result.
type cutoffOutput struct {
	Movie        string               `json:"movie"`
	ReleaseDate  string               `json:"release_date"`
	CutoffDay    int                  `json:"cutoff_day"`
	EffectiveDay int                  `json:"effective_day"`
	Score        schema.CutoffPoint   `json:"score"`
	SkippedRows  int                  `json:"skipped_rows"`
	Excluded     int                  `json:"excluded"`
	Points       []schema.CutoffPoint `json:"points"`
}

// PrintCutoffResult outputs a cutoff series, dispatching based on the output format configured.
func PrintCutoffResult(series *schema.CutoffSeries, point schema.CutoffPoint, effectiveDay int, cfg *contract.Config, duration time.Duration) error {
	if err := requireParquetFile(cfg); err != nil {
		return err
	}

	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForCutoff(series, point, effectiveDay, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForCutoff(series, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteSeriesParquet(parquet.ConvertSeries(series), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet cutoff series to %s\n", cfg.OutputFile)
	default:
		// Default to human-readable table
		if err := printCutoffTable(series, point, effectiveDay, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing cutoff table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForCutoff handles opening the file and calling the JSON writer.
func printJSONResultsForCutoff(series *schema.CutoffSeries, point schema.CutoffPoint, effectiveDay int, cfg *contract.Config) error {
	cutoffDay := cfg.CutoffDay
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, cutoffOutput{
			Movie:        series.Movie,
			ReleaseDate:  series.ReleaseDate.Format(contract.ReleaseDateFormat),
			CutoffDay:    cutoffDay,
			EffectiveDay: effectiveDay,
			Score:        point,
			SkippedRows:  series.SkippedRows,
			Excluded:     series.Excluded,
			Points:       series.Points,
		})
	}, "Wrote JSON cutoff results")
}

// printCSVResultsForCutoff handles opening the file and calling the CSV writer.
func printCSVResultsForCutoff(series *schema.CutoffSeries, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeSeriesCSV(w, series, fmtFloat)
	}, "Wrote CSV cutoff results")
}

// seriesCSVHeader lists the columns of the per-day series CSV.
var seriesCSVHeader = []string{
	"day_offset", "daily_count", "daily_fresh", "daily_percent_fresh",
	"cumulative_count", "cumulative_fresh", "cumulative_percent_fresh",
}

// writeSeriesCSV writes the dense per-day series as CSV rows.
func writeSeriesCSV(w io.Writer, series *schema.CutoffSeries, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, seriesCSVHeader, func(cw *csv.Writer) error {
		for _, p := range series.Points {
			row := []string{
				strconv.Itoa(p.DayOffset),
				strconv.Itoa(p.DailyCount),
				strconv.Itoa(p.DailyFresh),
				fmtFloat(p.DailyPercentFresh),
				strconv.Itoa(p.CumulativeCount),
				strconv.Itoa(p.CumulativeFresh),
				fmtFloat(p.CumulativePercentFresh),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// WriteSeriesCSVFile saves the full per-day series to a file, independent of
// the configured output mode.
func WriteSeriesCSVFile(path string, series *schema.CutoffSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create series file: %w", err)
	}
	defer func() { _ = f.Close() }()

	fmtFloat, _ := createFormatters(2)
	if err := writeSeriesCSV(f, series, fmtFloat); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Saved daily series to %s\n", path)
	return nil
}

// printCutoffTable prints the series in a seven-column table with a headline
// score underneath.
func printCutoffTable(series *schema.CutoffSeries, point schema.CutoffPoint, effectiveDay int, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	fmt.Printf("🍅 %s (released %s)\n", series.Movie, series.ReleaseDate.Format(contract.ReleaseDateFormat))

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Day", "Reviews", "Fresh", "Day %", "Total", "Total Fresh", "Total %"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range series.Points {
		row := []string{
			strconv.Itoa(p.DayOffset),
			strconv.Itoa(p.DailyCount),
			strconv.Itoa(p.DailyFresh),
			fmtFloat(p.DailyPercentFresh),
			strconv.Itoa(p.CumulativeCount),
			strconv.Itoa(p.CumulativeFresh),
			fmtFloat(p.CumulativePercentFresh),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("📊 Day %d cutoff: %s%% %s (%d/%d reviews)\n",
		effectiveDay,
		fmtFloat(point.CumulativePercentFresh),
		scoreLabel(point.CumulativePercentFresh, cfg),
		point.CumulativeFresh,
		point.CumulativeCount,
	)
	if effectiveDay < cfg.CutoffDay {
		fmt.Printf("ℹ️ Requested day %d is beyond the data; using last available day %d\n", cfg.CutoffDay, effectiveDay)
	}
	if series.SkippedRows > 0 {
		fmt.Printf("⚠️ Skipped %d rows with unparseable dates\n", series.SkippedRows)
	}
	if series.Excluded > 0 {
		fmt.Printf("ℹ️ Excluded %d pre-release reviews\n", series.Excluded)
	}

	fmt.Printf("Cutoff analysis completed in %v\n", duration)
	return nil
}
