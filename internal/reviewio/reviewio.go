// Package reviewio reads and writes review CSV files.
package reviewio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"freshscore/internal/contract"
	"freshscore/schema"
)

// Canonical column headers written by SaveReviews.
const (
	CriticColumn      = "Critic"
	PublicationColumn = "Publication"
	SentimentColumn   = "Sentiment"
	ScoreColumn       = "Original Score"
	DateColumn        = "Date"
	TextColumn        = "Review Text"
	URLColumn         = "URL"
)

// ErrMissingColumn indicates a required column was not found in the header.
var ErrMissingColumn = errors.New("required column not found")

// Fallback header names accepted when reading files produced by other tools.
var (
	dateColumnCandidates      = []string{DateColumn, "Review Date", "review_date"}
	sentimentColumnCandidates = []string{SentimentColumn, "Review Score", "Score", "State", "sentiment"}
)

// ReadReviews reads a review CSV file. The dateColumn and sentimentColumn
// overrides select columns by exact header name; empty overrides fall back to
// the known candidate names. Rows with unparseable dates are kept with a zero
// Date so callers can decide how to count them.
func ReadReviews(path, dateColumn, sentimentColumn string) ([]schema.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open review file: %w", err)
	}
	defer f.Close()

	reviews, err := ParseReviews(f, dateColumn, sentimentColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reviews, nil
}

// ParseReviews reads review rows from r. See ReadReviews.
func ParseReviews(r io.Reader, dateColumn, sentimentColumn string) ([]schema.Review, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header, dateColumn, sentimentColumn)
	if err != nil {
		return nil, err
	}

	var reviews []schema.Review
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rawDate := field(record, cols.date)
		review := schema.Review{
			Critic:        fieldOr(record, cols.critic, "Unknown"),
			Publication:   fieldOr(record, cols.publication, "Unknown"),
			Text:          field(record, cols.text),
			Sentiment:     schema.ParseSentiment(field(record, cols.sentiment)),
			OriginalScore: field(record, cols.score),
			RawDate:       rawDate,
			URL:           field(record, cols.url),
		}
		if t, err := contract.ParseReviewDate(rawDate); err == nil {
			review.Date = t
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}

// columnIndexes holds resolved header positions. Optional columns are -1.
type columnIndexes struct {
	critic      int
	publication int
	sentiment   int
	score       int
	date        int
	text        int
	url         int
}

func resolveColumns(header []string, dateColumn, sentimentColumn string) (columnIndexes, error) {
	cols := columnIndexes{
		critic:      findColumn(header, CriticColumn),
		publication: findColumn(header, PublicationColumn),
		score:       findColumn(header, ScoreColumn),
		text:        findColumn(header, TextColumn),
		url:         findColumn(header, URLColumn),
	}

	cols.date = resolveColumn(header, dateColumn, dateColumnCandidates)
	if cols.date < 0 {
		if dateColumn != "" {
			return cols, fmt.Errorf("%w: date column %q", ErrMissingColumn, dateColumn)
		}
		return cols, fmt.Errorf("%w: no date column among %v", ErrMissingColumn, dateColumnCandidates)
	}

	cols.sentiment = resolveColumn(header, sentimentColumn, sentimentColumnCandidates)
	if cols.sentiment < 0 {
		if sentimentColumn != "" {
			return cols, fmt.Errorf("%w: sentiment column %q", ErrMissingColumn, sentimentColumn)
		}
		return cols, fmt.Errorf("%w: no sentiment column among %v", ErrMissingColumn, sentimentColumnCandidates)
	}

	return cols, nil
}

// resolveColumn prefers an explicit override and otherwise walks candidates
// in order.
func resolveColumn(header []string, override string, candidates []string) int {
	if override != "" {
		return findColumn(header, override)
	}
	for _, name := range candidates {
		if idx := findColumn(header, name); idx >= 0 {
			return idx
		}
	}
	return -1
}

func findColumn(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func fieldOr(record []string, idx int, fallback string) string {
	if v := field(record, idx); v != "" {
		return v
	}
	return fallback
}

// SaveReviews writes reviews to path in the canonical column layout.
func SaveReviews(path string, reviews []schema.Review) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create review file: %w", err)
	}
	defer f.Close()

	return WriteReviews(f, reviews)
}

// WriteReviews writes reviews to w in the canonical column layout.
func WriteReviews(w io.Writer, reviews []schema.Review) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{CriticColumn, PublicationColumn, SentimentColumn, ScoreColumn, DateColumn, TextColumn, URLColumn}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rev := range reviews {
		date := rev.RawDate
		if date == "" && rev.HasDate() {
			date = rev.Date.Format(contract.ReleaseDateFormat)
		}
		row := []string{
			rev.Critic,
			rev.Publication,
			string(rev.Sentiment),
			rev.OriginalScore,
			date,
			rev.Text,
			rev.URL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
