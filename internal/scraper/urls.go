package scraper

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadURLList reads movie URLs from a text file, one per line. Blank lines
// and lines starting with '#' are skipped, and each URL is normalized to its
// reviews listing.
func ReadURLList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open URL list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, EnsureReviewsSuffix(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read URL list: %w", err)
	}
	return urls, nil
}

// EnsureReviewsSuffix normalizes a movie URL to point at its reviews listing.
func EnsureReviewsSuffix(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if strings.HasSuffix(url, "/reviews") {
		return url
	}
	return url + "/reviews"
}

// ExtractMovieSlug derives a readable movie name from the URL path segment,
// e.g. ".../m/top_gun_maverick" becomes "Top Gun Maverick".
func ExtractMovieSlug(url string) string {
	url = strings.TrimSuffix(strings.TrimRight(url, "/"), "/reviews")
	slug := url
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		slug = url[idx+1:]
	}
	if slug == "" {
		return "Unknown"
	}

	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	if len(words) == 0 {
		return "Unknown"
	}
	return strings.Join(words, " ")
}
