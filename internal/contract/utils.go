package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Scoring label constants. The 60% line is the site's fresh threshold and the
// 75% line mirrors its certified-fresh bar.
const (
	CertifiedValue = "Certified" // 75% and above
	FreshValue     = "Fresh"     // 60% and above
	RottenValue    = "Rotten"    // below 60%
)

// Color variables for console output.
var (
	CertifiedColor = color.New(color.FgGreen, color.Bold) // certifiedColor marks a standout score.
	FreshColor     = color.New(color.FgGreen)             // freshColor represents a positive score.
	RottenColor    = color.New(color.FgRed)               // rottenColor represents a negative score.
)

// GetPlainLabel returns a plain text label for a fresh percentage.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(percent float64) string {
	switch {
	case percent >= 75:
		return CertifiedValue
	case percent >= 60:
		return FreshValue
	default:
		return RottenValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(percent float64) string {
	text := GetPlainLabel(percent)

	switch text {
	case CertifiedValue:
		return CertifiedColor.Sprint(text)
	case FreshValue:
		return FreshColor.Sprint(text)
	default: // "Rotten"
		return RottenColor.Sprint(text)
	}
}

// FormatPercent renders a percentage with the configured number of decimals.
func FormatPercent(percent float64, precision int) string {
	return strconv.FormatFloat(percent, 'f', precision, 64)
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".freshscore_history.db"
	}
	return filepath.Join(homeDir, ".freshscore_history.db")
}

const (
	maxFilenameLen = 100
	fallbackName   = "unnamed_file"
)

var (
	forbiddenChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	controlChars   = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// CleanFilename sanitizes a movie name into a safe filename component.
// Forbidden filesystem characters and control characters are stripped,
// whitespace collapses to single underscores, and the result is capped
// at 100 characters.
func CleanFilename(name string) string {
	cleaned := forbiddenChars.ReplaceAllString(name, "")
	cleaned = controlChars.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRuns.ReplaceAllString(strings.TrimSpace(cleaned), "_")
	cleaned = underscoreRuns.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "_.")
	if len(cleaned) > maxFilenameLen {
		cleaned = strings.Trim(cleaned[:maxFilenameLen], "_.")
	}
	if cleaned == "" {
		return fallbackName
	}
	return cleaned
}

// TruncateText truncates a string to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." suffix
// and at least one character of content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
