package contract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Saved review files follow Movie_Name_YYYY-MM-DD_YYYYMMDD_HHMMSS.csv where
// the first date is the release date and the second is the scrape timestamp.
var (
	scrapedFilePattern  = regexp.MustCompile(`_(\d{4}-\d{2}-\d{2})_\d{8}_\d{6}\.csv$`)
	anyDateFilePattern  = regexp.MustCompile(`_(\d{4}-\d{2}-\d{2})`)
	movieNamePattern    = regexp.MustCompile(`^(.+?)_\d{4}-\d{2}-\d{2}`)
	trailingStampSuffix = regexp.MustCompile(`_\d{8}_\d{6}$`)
)

// ExtractReleaseDate pulls the release date out of a saved review filename.
// It prefers the full scraped-file pattern and falls back to the first
// YYYY-MM-DD token found anywhere in the name.
func ExtractReleaseDate(path string) (time.Time, error) {
	base := filepath.Base(path)

	m := scrapedFilePattern.FindStringSubmatch(base)
	if m == nil {
		m = anyDateFilePattern.FindStringSubmatch(base)
	}
	if m == nil {
		return time.Time{}, fmt.Errorf("no release date found in filename: %s", base)
	}

	t, err := time.Parse(ReleaseDateFormat, m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid release date in filename %s: %w", base, err)
	}
	return t, nil
}

// ExtractMovieName derives a display name from a saved review filename.
// Underscores become spaces; the release date and scrape timestamp are dropped.
func ExtractMovieName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if m := movieNamePattern.FindStringSubmatch(base); m != nil {
		base = m[1]
	} else {
		base = trailingStampSuffix.ReplaceAllString(base, "")
	}

	name := strings.TrimSpace(strings.ReplaceAll(base, "_", " "))
	if name == "" {
		return "Unknown"
	}
	return name
}

// BuildReviewFilename constructs the canonical filename for a scraped review
// set. A zero release date omits the release date segment.
func BuildReviewFilename(movie string, releaseDate, scrapedAt time.Time) string {
	stamp := scrapedAt.Format("20060102_150405")
	clean := CleanFilename(movie)
	if releaseDate.IsZero() {
		return fmt.Sprintf("%s_%s.csv", clean, stamp)
	}
	return fmt.Sprintf("%s_%s_%s.csv", clean, releaseDate.Format(ReleaseDateFormat), stamp)
}
