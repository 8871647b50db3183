package cmd

import (
	"github.com/spf13/cobra"

	"freshscore/core"
	"freshscore/internal/contract"
)

// scrapeCmd downloads critic reviews for one or more movies.
var scrapeCmd = &cobra.Command{
	Use:   "scrape [movie-url]",
	Short: "Download critic reviews for a movie into a CSV file.",
	Long: `Fetch the paginated critic review listing for a movie page and save the
reviews as a CSV named Movie_Name_YYYY-MM-DD_YYYYMMDD_HHMMSS.csv, ready for
the cutoff and batch commands.

Pass a single movie URL, or --url-file with one URL per line to scrape a
whole watchlist. Duplicate reviews across pages are dropped, and a randomized
pause between page fetches keeps the request rate polite.

Examples:
  # Scrape one movie into the current directory
  freshscore scrape https://www.rottentomatoes.com/m/top_gun_maverick

  # Scrape a watchlist into a dedicated folder
  freshscore scrape --url-file watchlist.txt --output-dir ./reviews

  # Cap the crawl for a quick sample
  freshscore scrape https://www.rottentomatoes.com/m/nope --max-reviews 50`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScrape(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot scrape reviews", err)
		}
	},
}
