package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractReleaseDate covers the scraped-file pattern and the loose fallback.
func TestExtractReleaseDate(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		expected    string
		expectError bool
	}{
		{
			name:     "full scraped filename",
			path:     "Top_Gun_Maverick_2022-05-27_20250531_235717.csv",
			expected: "2022-05-27",
		},
		{
			name:     "with directory prefix",
			path:     "data/reviews/The_Batman_2022-03-04_20250601_120000.csv",
			expected: "2022-03-04",
		},
		{
			name:     "date without scrape stamp",
			path:     "Some_Movie_2021-12-17.csv",
			expected: "2021-12-17",
		},
		{
			name:        "no date in name",
			path:        "reviews.csv",
			expectError: true,
		},
		{
			name:        "empty name",
			path:        "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractReleaseDate(tt.path)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got.Format(ReleaseDateFormat))
			}
		})
	}
}

// TestExtractMovieName verifies the display name derived from filenames.
func TestExtractMovieName(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "full scraped filename",
			path:     "Top_Gun_Maverick_2022-05-27_20250531_235717.csv",
			expected: "Top Gun Maverick",
		},
		{
			name:     "single word title",
			path:     "Nope_2022-07-22_20250601_000000.csv",
			expected: "Nope",
		},
		{
			name:     "no release date segment",
			path:     "Movie_Title.csv",
			expected: "Movie Title",
		},
		{
			name:     "stamp without release date",
			path:     "Movie_Title_20250531_235717.csv",
			expected: "Movie Title",
		},
		{
			name:     "with directory prefix",
			path:     "out/Dune_Part_Two_2024-03-01_20250601_101010.csv",
			expected: "Dune Part Two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractMovieName(tt.path))
		})
	}
}

// TestBuildReviewFilename checks the canonical filename round-trips through
// the extractors.
func TestBuildReviewFilename(t *testing.T) {
	release := time.Date(2022, time.May, 27, 0, 0, 0, 0, time.UTC)
	scraped := time.Date(2025, time.May, 31, 23, 57, 17, 0, time.UTC)

	got := BuildReviewFilename("Top Gun: Maverick", release, scraped)
	assert.Equal(t, "Top_Gun_Maverick_2022-05-27_20250531_235717.csv", got)

	// Round trip
	date, err := ExtractReleaseDate(got)
	require.NoError(t, err)
	assert.Equal(t, release, date)
	assert.Equal(t, "Top Gun Maverick", ExtractMovieName(got))

	// Zero release date omits the segment
	got = BuildReviewFilename("Unknown Movie", time.Time{}, scraped)
	assert.Equal(t, "Unknown_Movie_20250531_235717.csv", got)
}
