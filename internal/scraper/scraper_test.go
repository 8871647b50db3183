package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshscore/schema"
)

const moviePageHTML = `<html><body>
<h1 data-qa="score-panel-title">Test Movie</h1>
<div data-qa="movie-info-item-value">Action, Drama</div>
<div data-qa="movie-info-item-value">May 27, 2022</div>
</body></html>`

func reviewItem(critic, pub, date, quote, sentiment string) string {
	return fmt.Sprintf(`<div data-qa="review-item">
		<a data-qa="review-critic-link">%s</a>
		<span data-qa="review-publication">%s</span>
		<score-icon-critics sentiment="%s"></score-icon-critics>
		<p data-qa="review-quote">%s</p>
		<span data-qa="review-date">%s</span>
		<span data-qa="review-original-score">Original Score: 3/4</span>
	</div>`, critic, pub, sentiment, quote, date)
}

// TestParseReviewRows parses a static reviews page.
func TestParseReviewRows(t *testing.T) {
	html := "<html><body>" +
		reviewItem("Jane Doe", "The Paper", "May 27, 2022", "Great fun.", "POSITIVE") +
		reviewItem("John Roe", "The Mag", "May 28, 2022", "Not for me.", "NEGATIVE") +
		"</body></html>"

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	reviews := parseReviewRows(doc)
	require.Len(t, reviews, 2)

	first := reviews[0]
	assert.Equal(t, "Jane Doe", first.Critic)
	assert.Equal(t, "The Paper", first.Publication)
	assert.Equal(t, schema.FreshSentiment, first.Sentiment)
	assert.Equal(t, "3/4", first.OriginalScore)
	assert.True(t, first.HasDate())
	assert.Equal(t, time.Date(2022, time.May, 27, 0, 0, 0, 0, time.UTC), first.Date)

	assert.Equal(t, schema.RottenSentiment, reviews[1].Sentiment)
}

// TestScrapeMovie walks a fake two-page listing end to end.
func TestScrapeMovie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/m/test_movie", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, moviePageHTML)
	})
	mux.HandleFunc("/m/test_movie/reviews", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			fmt.Fprint(w, "<html><body>"+
				reviewItem("A", "P1", "May 27, 2022", "First take.", "POSITIVE")+
				reviewItem("B", "P2", "May 27, 2022", "Second take.", "NEGATIVE")+
				"</body></html>")
		case "2":
			fmt.Fprint(w, "<html><body>"+
				// First review repeats across pages and must be deduped
				reviewItem("A", "P1", "May 27, 2022", "First take.", "POSITIVE")+
				reviewItem("C", "P3", "May 28, 2022", "Third take.", "POSITIVE")+
				"</body></html>")
		default:
			fmt.Fprint(w, "<html><body></body></html>")
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sc := New(Options{
		Client:   resty.New(),
		MaxPages: 5,
	})

	result, err := sc.ScrapeMovie(context.Background(), server.URL+"/m/test_movie")
	require.NoError(t, err)

	assert.Equal(t, "Test Movie", result.Movie)
	assert.Equal(t, time.Date(2022, time.May, 27, 0, 0, 0, 0, time.UTC), result.ReleaseDate)
	require.Len(t, result.Reviews, 3)
	assert.Equal(t, 3, result.Pages)
}

// TestScrapeMovieMaxReviews stops once the review cap is reached.
func TestScrapeMovieMaxReviews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/m/test_movie", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, moviePageHTML)
	})
	mux.HandleFunc("/m/test_movie/reviews", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body>"+
			reviewItem("A", "P1", "May 27, 2022", "One.", "POSITIVE")+
			reviewItem("B", "P2", "May 27, 2022", "Two.", "POSITIVE")+
			reviewItem("C", "P3", "May 27, 2022", "Three.", "POSITIVE")+
			"</body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sc := New(Options{Client: resty.New(), MaxPages: 5, MaxReviews: 2})

	result, err := sc.ScrapeMovie(context.Background(), server.URL+"/m/test_movie")
	require.NoError(t, err)
	assert.Len(t, result.Reviews, 2)
}

// TestScrapeMovieNoReviews surfaces an error instead of an empty result.
func TestScrapeMovieNoReviews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body><h1>Nothing here</h1></body></html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sc := New(Options{Client: resty.New(), MaxPages: 2})

	_, err := sc.ScrapeMovie(context.Background(), server.URL+"/m/empty_movie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reviews found")
}

// TestDedupeKey verifies the truncated identity key.
func TestDedupeKey(t *testing.T) {
	long := strings.Repeat("x", 80)
	a := schema.Review{Critic: "A", Publication: "P", RawDate: "May 27, 2022", Text: long + "tail one"}
	b := schema.Review{Critic: "A", Publication: "P", RawDate: "May 27, 2022", Text: long + "tail two"}
	c := schema.Review{Critic: "B", Publication: "P", RawDate: "May 27, 2022", Text: long}

	assert.Equal(t, dedupeKey(&a), dedupeKey(&b), "same prefix should collide")
	assert.NotEqual(t, dedupeKey(&a), dedupeKey(&c))
}

// TestPageURL checks query parameter composition.
func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://x.test/m/a/reviews", pageURL("https://x.test/m/a/reviews", 1))
	assert.Equal(t, "https://x.test/m/a/reviews?page=2", pageURL("https://x.test/m/a/reviews", 2))
	assert.Equal(t, "https://x.test/m/a/reviews?type=top&page=3", pageURL("https://x.test/m/a/reviews?type=top", 3))
}
