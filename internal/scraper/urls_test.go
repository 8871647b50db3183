package scraper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadURLList skips comments and blanks and normalizes entries.
func TestReadURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := `# summer blockbusters
https://example.test/m/top_gun_maverick

https://example.test/m/the_batman/reviews
  https://example.test/m/nope/
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	urls, err := ReadURLList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.test/m/top_gun_maverick/reviews",
		"https://example.test/m/the_batman/reviews",
		"https://example.test/m/nope/reviews",
	}, urls)
}

// TestReadURLListMissingFile returns an error for missing input.
func TestReadURLListMissingFile(t *testing.T) {
	_, err := ReadURLList(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

// TestEnsureReviewsSuffix covers already-normalized and trailing-slash URLs.
func TestEnsureReviewsSuffix(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://x.test/m/a", "https://x.test/m/a/reviews"},
		{"https://x.test/m/a/", "https://x.test/m/a/reviews"},
		{"https://x.test/m/a/reviews", "https://x.test/m/a/reviews"},
		{" https://x.test/m/a ", "https://x.test/m/a/reviews"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, EnsureReviewsSuffix(tt.input))
	}
}

// TestExtractMovieSlug derives display names from URL slugs.
func TestExtractMovieSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://x.test/m/top_gun_maverick", "Top Gun Maverick"},
		{"https://x.test/m/top_gun_maverick/reviews", "Top Gun Maverick"},
		{"https://x.test/m/the-batman", "The Batman"},
		{"https://x.test/m/nope/", "Nope"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtractMovieSlug(tt.input))
	}
}
