// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"freshscore/internal/contract"
	"freshscore/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteCutoff prints a cutoff series result using the configured output format.
func (ow *OutWriter) WriteCutoff(series *schema.CutoffSeries, point schema.CutoffPoint, effectiveDay int, cfg *contract.Config, duration time.Duration) error {
	return PrintCutoffResult(series, point, effectiveDay, cfg, duration)
}

// WriteBatch prints batch summaries using the configured output format.
func (ow *OutWriter) WriteBatch(result *schema.BatchResult, cfg *contract.Config, duration time.Duration) error {
	return PrintBatchResult(result, cfg, duration)
}

// WriteRuns prints recorded batch runs using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return PrintRuns(runs, cfg)
}

// WriteScores prints recorded per-movie scores using the configured output format.
func (ow *OutWriter) WriteScores(scores []schema.ScoreRecord, cfg *contract.Config) error {
	return PrintScores(scores, cfg)
}

// WriteStatus prints history store status using the configured output format.
func (ow *OutWriter) WriteStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return PrintHistoryStatus(status, cfg)
}

// GetMaxTableTextWidth calculates the maximum width for the movie column in
// table output based on terminal width and the fixed numeric columns.
func GetMaxTableTextWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns plus borders and padding
	baseWidth := 55

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable movie name width
		return 15
	}
	if available > 60 {
		// Maximum movie name width to keep rows compact
		return 60
	}
	return available
}
