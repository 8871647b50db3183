package cmd

import (
	"github.com/spf13/cobra"

	"freshscore/core"
	"freshscore/internal/contract"
)

// cutoffCmd scores a single review CSV at a cutoff day.
var cutoffCmd = &cobra.Command{
	Use:   "cutoff <review-csv>",
	Short: "Show the fresh percentage of one movie at a cutoff day.",
	Long: `Read a scraped review CSV, bucket each review by whole days since release,
and report the cumulative fresh percentage at the chosen cutoff day.

The movie name and release date come from the filename when it follows the
Movie_Name_YYYY-MM-DD_YYYYMMDD_HHMMSS.csv pattern, and can be overridden
with --movie and --release-date.

Examples:
  # Opening weekend consensus (default cutoff is day 4)
  freshscore cutoff Top_Gun_Maverick_2022-05-27_20250531_235717.csv

  # Score at release day only
  freshscore cutoff reviews.csv --release-date 2022-05-27 -d 0

  # Count early screenings as day 0 instead of dropping them
  freshscore cutoff reviews.csv --pre-release clamp

  # Keep the full per-day series for plotting
  freshscore cutoff reviews.csv --series-file series.csv

  # Machine-readable output
  freshscore cutoff reviews.csv --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCutoff(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot score review file", err)
		}
	},
}
