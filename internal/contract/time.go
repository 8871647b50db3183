package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Review date layouts seen on review pages and in saved CSVs.
var reviewDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	ReleaseDateFormat,
}

// looseDatePattern catches date strings embedded in surrounding text, such as
// "Full Review | Original Score: 3/4 | May 28, 2022".
var looseDatePattern = regexp.MustCompile(`([A-Za-z]{3,})\s+(\d{1,2}),?\s+(\d{4})`)

// monthsByPrefix maps the first three letters of an English month name to its
// time.Month value.
var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseReviewDate parses a review date string. It tries the known layouts
// first, then falls back to scanning the string for a month-day-year pattern.
// All dates are interpreted as UTC calendar dates.
func ParseReviewDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range reviewDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	m := looseDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("unrecognized date format: %q", raw)
	}

	month, ok := monthsByPrefix[strings.ToLower(m[1])[:3]]
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized month in date: %q", raw)
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid day in date: %q", raw)
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in date: %q", raw)
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// DayOffset returns the number of whole calendar days between the release
// date and the review date. Negative offsets indicate pre-release reviews.
// Both times are truncated to their UTC calendar date first, so a review
// published late in the evening of release day is still day 0.
func DayOffset(releaseDate, reviewDate time.Time) int {
	release := truncateToDay(releaseDate)
	review := truncateToDay(reviewDate)
	return int(review.Sub(release).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
