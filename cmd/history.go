package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"freshscore/core"
	"freshscore/internal/contract"
	"freshscore/internal/iocache"
)

// historyCmd lists recorded batch runs and their scores.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded batch runs and per-movie scores.",
	Long: `Every successful batch run is recorded in the history store, keeping the
run metadata and the per-movie scores at the cutoff day that was used.

Without flags this lists the most recent runs. Use --run to drill into the
per-movie scores of one run.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history store statistics
  export  - Export a run's scores to CSV, JSON or Parquet
  migrate - Run database schema migrations

Examples:
  # List the last 10 batch runs
  freshscore history

  # Per-movie scores of run 3
  freshscore history --run 3

  # Feed scores into a spreadsheet
  freshscore history --run 3 --output csv --output-file run3.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		runID, _ := cmd.Flags().GetInt64("run")
		limit, _ := cmd.Flags().GetInt("limit")
		if err := core.ExecuteHistory(cfg, historyStore(), runID, limit); err != nil {
			contract.LogFatal("Cannot read run history", err)
		}
	},
}

// historyStatusCmd shows history store status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history store statistics and connection details",
	Long: `Show the configured history backend, its connection health, the number of
recorded batch runs and when the last run happened.

Examples:
  # Check that run tracking is working
  freshscore history status`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStatus(cfg, historyStore()); err != nil {
			contract.LogFatal("Cannot read history status", err)
		}
	},
}

// historyExportCmd exports the scores of a recorded run.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a run's per-movie scores for analytics",
	Long: `Write the per-movie scores of a recorded batch run in the configured
output format. Parquet output enables fast querying with DuckDB, pandas or
Spark, and requires --output-file.

Examples:
  # Export the most recent run
  freshscore history export --output parquet --output-file scores.parquet

  # Export a specific run as JSON
  freshscore history export --run 3 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		runID, _ := cmd.Flags().GetInt64("run")
		if err := core.ExecuteExport(cfg, historyStore(), runID); err != nil {
			contract.LogFatal("Cannot export run scores", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific
versions.

Examples:
  # Migrate to latest version (default)
  freshscore history migrate

  # Rollback to previous version
  freshscore history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
