package cmd

import (
	"github.com/spf13/cobra"

	"freshscore/core"
	"freshscore/internal/contract"
)

// batchCmd scores every review CSV in a directory.
var batchCmd = &cobra.Command{
	Use:   "batch <csv-dir>",
	Short: "Score every review CSV in a directory at one cutoff day.",
	Long: `Score all review CSVs in a directory concurrently and print one summary
row per movie. Files that cannot be parsed are reported as failures without
stopping the rest of the batch.

Each successful batch run is recorded in the history store so scores can be
compared across runs later with 'freshscore history'.

Examples:
  # Compare opening-weekend scores across a whole season
  freshscore batch ./reviews

  # Same directory at a two week cutoff, exported as CSV
  freshscore batch ./reviews -d 14 --output csv --output-file season.csv

  # Throttle concurrency on a small machine
  freshscore batch ./reviews --workers 2`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBatch(rootCtx, cfg, historyStore()); err != nil {
			contract.LogFatal("Cannot score review directory", err)
		}
	},
}
