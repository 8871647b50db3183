package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGetPlainLabel covers the score threshold boundaries.
func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		percent  float64
		expected string
	}{
		{"well above certified", 95.0, CertifiedValue},
		{"exactly certified", 75.0, CertifiedValue},
		{"just below certified", 74.9, FreshValue},
		{"exactly fresh", 60.0, FreshValue},
		{"just below fresh", 59.9, RottenValue},
		{"zero", 0.0, RottenValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.percent))
		})
	}
}

// TestFormatPercent verifies decimal precision handling.
func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "71.43", FormatPercent(5.0/7.0*100, 2))
	assert.Equal(t, "71.4", FormatPercent(5.0/7.0*100, 1))
	assert.Equal(t, "75.00", FormatPercent(75.0, 2))
	assert.Equal(t, "100.00", FormatPercent(100.0, 2))
}

// TestCleanFilename mirrors the sanitization rules for saved review files.
func TestCleanFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "Top Gun Maverick", "Top_Gun_Maverick"},
		{"colon stripped", "Top Gun: Maverick", "Top_Gun_Maverick"},
		{"forbidden characters", `A/B\C:D*E?F"G<H>I|J`, "ABCDEFGHIJ"},
		{"whitespace runs collapse", "Movie   With    Spaces", "Movie_With_Spaces"},
		{"underscore runs collapse", "Movie__Name___Here", "Movie_Name_Here"},
		{"control characters stripped", "Movie\x00Name\x1f", "MovieName"},
		{"trailing dots trimmed", "Movie Name...", "Movie_Name"},
		{"empty input falls back", "", "unnamed_file"},
		{"only forbidden characters falls back", `\/:*?"<>|`, "unnamed_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanFilename(tt.input))
		})
	}

	t.Run("long name capped at 100", func(t *testing.T) {
		long := ""
		for range 30 {
			long += "abcde "
		}
		got := CleanFilename(long)
		assert.LessOrEqual(t, len(got), 100)
		assert.NotEmpty(t, got)
	})
}

// TestTruncateText verifies ellipsis handling at small widths.
func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "a long ...", TruncateText("a long review excerpt", 10))
	// maxWidth <= 3 leaves the text alone
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3))
}

// TestParseBoolString covers accepted spellings and invalid input.
func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}
