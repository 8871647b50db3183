package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseReviewDate covers the known layouts plus the loose fallback scan.
func TestParseReviewDate(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "abbreviated month",
			input:    "May 27, 2022",
			expected: time.Date(2022, time.May, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "full month name",
			input:    "January 5, 2023",
			expected: time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso date",
			input:    "2022-05-27",
			expected: time.Date(2022, time.May, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "date embedded in metadata text",
			input:    "Full Review | Original Score: 3/4 | May 28, 2022",
			expected: time.Date(2022, time.May, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "no comma between day and year",
			input:    "Jun 1 2022",
			expected: time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "surrounding whitespace",
			input:    "  May 27, 2022  ",
			expected: time.Date(2022, time.May, 27, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "no date at all",
			input:       "Top Critic",
			expectError: true,
		},
		{
			name:        "bogus month word",
			input:       "Xyzzy 12, 2022",
			expectError: true,
		},
		{
			name:        "day out of range",
			input:       "May 42, 2022",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReviewDate(tt.input)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got, "Parsed date mismatch for %q", tt.input)
			}
		})
	}
}

// TestDayOffset verifies the calendar-day bucketing relative to release.
func TestDayOffset(t *testing.T) {
	release := time.Date(2022, time.May, 27, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		review   time.Time
		expected int
	}{
		{
			name:     "same day",
			review:   release,
			expected: 0,
		},
		{
			name:     "late on release day still day zero",
			review:   time.Date(2022, time.May, 27, 23, 59, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "next day",
			review:   time.Date(2022, time.May, 28, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "one week later",
			review:   time.Date(2022, time.June, 3, 0, 0, 0, 0, time.UTC),
			expected: 7,
		},
		{
			name:     "pre-release review is negative",
			review:   time.Date(2022, time.May, 25, 0, 0, 0, 0, time.UTC),
			expected: -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayOffset(release, tt.review))
		})
	}
}

// FuzzParseReviewDate fuzzes the date parser with random inputs.
func FuzzParseReviewDate(f *testing.F) {
	seeds := []string{
		"May 27, 2022",
		"January 5, 2023",
		"2022-05-27",
		"Jun 1 2022",
		"Full Review | May 28, 2022",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(_ *testing.T, input string) {
		_, err := ParseReviewDate(input)
		_ = err // ignore error, we're testing for crashes
	})
}
