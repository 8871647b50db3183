// Package cmd defines the command-line interface for freshscore.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"freshscore/internal/contract"
	"freshscore/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(cutoffCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("movie", "", "Movie name override (default derives from the filename)")
	rootCmd.PersistentFlags().String("release-date", "", "Release date override in YYYY-MM-DD (default derives from the filename)")
	rootCmd.PersistentFlags().IntP("cutoff-day", "d", contract.DefaultCutoffDay, "Days after release to cut off at")
	rootCmd.PersistentFlags().String("pre-release", string(schema.ExcludePreRelease), "Policy for reviews dated before release: exclude or clamp")
	rootCmd.PersistentFlags().String("date-column", "", "CSV column holding the review date (default auto-detect)")
	rootCmd.PersistentFlags().String("sentiment-column", "", "CSV column holding the verdict (default auto-detect)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cutoffCmd to Viper
	cutoffCmd.Flags().String("series-file", "", "Optional path to write the full per-day series as CSV")
	if err := viper.BindPFlags(cutoffCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cutoff flags", err)
	}

	// Bind all flags of scrapeCmd to Viper
	scrapeCmd.Flags().String("url-file", "", "File with one movie URL per line (# comments allowed)")
	scrapeCmd.Flags().String("output-dir", ".", "Directory to write scraped review CSVs to")
	scrapeCmd.Flags().Int("max-reviews", 0, "Stop after collecting this many reviews (0 = unlimited)")
	scrapeCmd.Flags().Int("max-pages", contract.DefaultMaxPages, "Maximum number of listing pages to fetch per movie")
	scrapeCmd.Flags().String("min-delay", "1s", "Minimum pause between page fetches")
	scrapeCmd.Flags().String("max-delay", "3s", "Maximum pause between page fetches")
	if err := viper.BindPFlags(scrapeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding scrape flags", err)
	}

	// The run flags are read directly from Cobra because binding the same
	// key from two commands would clobber each other in Viper.
	historyCmd.Flags().Int64("run", 0, "Show per-movie scores for this run instead of the run list")
	historyCmd.Flags().Int("limit", 10, "Number of runs to list")
	historyExportCmd.Flags().Int64("run", 0, "Run to export (0 = most recent)")

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
