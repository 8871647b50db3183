// Package scraper downloads critic reviews from movie review pages.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"freshscore/internal/contract"
	"freshscore/schema"
)

// Request defaults. Review pages throttle aggressive clients, so retries
// back off and page fetches are spaced by a randomized delay.
const (
	defaultRetryCount   = 3
	defaultRetryWait    = 2 * time.Second
	defaultRetryMaxWait = 10 * time.Second
	defaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	dedupeTextPrefixLen = 50
)

// Options configures a Scraper.
type Options struct {
	// Client overrides the default resty client, mainly for tests.
	Client *resty.Client

	MinDelay   time.Duration
	MaxDelay   time.Duration
	MaxPages   int
	MaxReviews int // 0 = unlimited
}

// Scraper fetches and parses review pages.
type Scraper struct {
	client *resty.Client
	opts   Options
}

// Result holds everything scraped for one movie.
type Result struct {
	Movie       string
	ReleaseDate time.Time
	Reviews     []schema.Review
	Pages       int
}

// New creates a Scraper with retrying HTTP defaults.
func New(opts Options) *Scraper {
	client := opts.Client
	if client == nil {
		client = resty.New().
			SetRetryCount(defaultRetryCount).
			SetRetryWaitTime(defaultRetryWait).
			SetRetryMaxWaitTime(defaultRetryMaxWait).
			SetHeader("User-Agent", defaultUserAgent)
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1
	}
	return &Scraper{client: client, opts: opts}
}

// ScrapeMovie downloads all review pages for one movie. It first reads the
// movie page for the title and release date, then walks the paginated
// reviews listing until no new reviews appear or a limit is hit.
func (s *Scraper) ScrapeMovie(ctx context.Context, url string) (*Result, error) {
	url = EnsureReviewsSuffix(url)

	result := &Result{}
	if err := s.fetchMovieInfo(ctx, url, result); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for page := 1; page <= s.opts.MaxPages; page++ {
		if page > 1 {
			if err := s.pause(ctx); err != nil {
				return nil, err
			}
		}

		doc, err := s.fetchDocument(ctx, pageURL(url, page))
		if err != nil {
			if page == 1 {
				return nil, err
			}
			contract.LogWarn(fmt.Sprintf("Page %d fetch failed, stopping pagination", page), err)
			break
		}
		result.Pages = page

		added := 0
		for _, rev := range parseReviewRows(doc) {
			key := dedupeKey(&rev)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result.Reviews = append(result.Reviews, rev)
			added++

			if s.opts.MaxReviews > 0 && len(result.Reviews) >= s.opts.MaxReviews {
				return result, nil
			}
		}

		// A page with nothing new means pagination has run out.
		if added == 0 {
			break
		}
	}

	if len(result.Reviews) == 0 {
		return nil, fmt.Errorf("no reviews found at %s", url)
	}
	return result, nil
}

// fetchMovieInfo reads the movie landing page for the display title and
// theatrical release date. Both fall back gracefully: the title to the URL
// slug, the release date to zero.
func (s *Scraper) fetchMovieInfo(ctx context.Context, reviewsURL string, result *Result) error {
	movieURL := strings.TrimSuffix(reviewsURL, "/reviews")

	doc, err := s.fetchDocument(ctx, movieURL)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(doc.Find(`h1[data-qa="score-panel-title"]`).First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = ExtractMovieSlug(movieURL)
	}
	result.Movie = title

	// The info section lists labeled values; the theatrical release date is
	// the first value that parses as a date.
	doc.Find(`[data-qa="movie-info-item-value"], time`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if t, err := contract.ParseReviewDate(text); err == nil {
			result.ReleaseDate = t
			return false
		}
		return true
	})

	return nil
}

// fetchDocument performs a GET and parses the body as HTML.
func (s *Scraper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	res, err := s.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", url, err)
	}
	return doc, nil
}

// parseReviewRows extracts the review entries from a reviews listing page.
func parseReviewRows(doc *goquery.Document) []schema.Review {
	var reviews []schema.Review

	doc.Find(`[data-qa="review-item"]`).Each(func(_ int, row *goquery.Selection) {
		rev := schema.Review{
			Critic:      textOr(row.Find(`[data-qa="review-critic-link"]`), "Unknown"),
			Publication: textOr(row.Find(`[data-qa="review-publication"]`), "Unknown"),
			Text:        strings.TrimSpace(row.Find(`[data-qa="review-quote"]`).First().Text()),
			URL:         row.Find(`[data-qa="review-link"]`).First().AttrOr("href", ""),
		}

		sentimentAttr := row.Find("score-icon-critics, score-icon-critic").First().AttrOr("sentiment", "")
		if sentimentAttr == "" {
			// Older markup uses a state attribute on the icon element
			sentimentAttr = row.Find("[state]").First().AttrOr("state", "")
		}
		rev.Sentiment = schema.ParseSentiment(sentimentAttr)

		rev.RawDate = strings.TrimSpace(row.Find(`[data-qa="review-date"]`).First().Text())
		if t, err := contract.ParseReviewDate(rev.RawDate); err == nil {
			rev.Date = t
		}

		// The original score is embedded in the metadata line
		meta := strings.TrimSpace(row.Find(`[data-qa="review-original-score"]`).First().Text())
		rev.OriginalScore = strings.TrimSpace(strings.TrimPrefix(meta, "Original Score:"))

		if rev.Text != "" || rev.RawDate != "" {
			reviews = append(reviews, rev)
		}
	})

	return reviews
}

// dedupeKey builds the identity key for a review. Text is truncated so
// minor trailing edits between pages don't produce duplicates.
func dedupeKey(rev *schema.Review) string {
	text := rev.Text
	if len(text) > dedupeTextPrefixLen {
		text = text[:dedupeTextPrefixLen]
	}
	return strings.Join([]string{rev.Critic, rev.Publication, rev.RawDate, text}, "|")
}

// pause sleeps a random duration between MinDelay and MaxDelay, honoring
// context cancellation.
func (s *Scraper) pause(ctx context.Context) error {
	delay := s.opts.MinDelay
	if spread := s.opts.MaxDelay - s.opts.MinDelay; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pageURL appends the page number query parameter for pages after the first.
func pageURL(url string, page int) string {
	if page <= 1 {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", url, sep, page)
}

func textOr(sel *goquery.Selection, fallback string) string {
	if text := strings.TrimSpace(sel.First().Text()); text != "" {
		return text
	}
	return fallback
}
