package core

import (
	"fmt"
	"sort"
	"time"

	"freshscore/internal/contract"
	"freshscore/schema"
)

// dayBucket accumulates review counts for one day offset.
type dayBucket struct {
	count int
	fresh int
}

// BuildCutoffSeries buckets reviews by whole days since release and produces
// a dense per-day series with running cumulative totals. Days with no
// reviews get zero daily counts and carry the previous day's cumulative
// values forward, so indexing the series by day offset is always valid.
func BuildCutoffSeries(movie string, releaseDate time.Time, reviews []schema.Review, policy schema.PreReleasePolicy) (*schema.CutoffSeries, error) {
	if _, ok := schema.ValidPreReleasePolicies[policy]; !ok {
		return nil, fmt.Errorf("invalid pre-release policy %q", policy)
	}
	if len(reviews) == 0 {
		return nil, ErrNoReviews
	}

	series := &schema.CutoffSeries{
		Movie:       movie,
		ReleaseDate: releaseDate,
	}

	buckets := make(map[int]*dayBucket)
	for i := range reviews {
		rev := &reviews[i]
		if !rev.HasDate() {
			series.SkippedRows++
			continue
		}

		offset := contract.DayOffset(releaseDate, rev.Date)
		if offset < 0 {
			if policy == schema.ExcludePreRelease {
				series.Excluded++
				continue
			}
			offset = 0 // clamp to release day
		}

		b := buckets[offset]
		if b == nil {
			b = &dayBucket{}
			buckets[offset] = b
		}
		b.count++
		if rev.IsFresh() {
			b.fresh++
		}
	}

	if len(buckets) == 0 {
		return nil, ErrNoUsableDates
	}

	offsets := make([]int, 0, len(buckets))
	for off := range buckets {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)
	maxDay := offsets[len(offsets)-1]

	series.Points = make([]schema.CutoffPoint, 0, maxDay+1)
	cumCount, cumFresh := 0, 0
	for day := 0; day <= maxDay; day++ {
		point := schema.CutoffPoint{DayOffset: day}
		if b, ok := buckets[day]; ok {
			point.DailyCount = b.count
			point.DailyFresh = b.fresh
			point.DailyPercentFresh = percent(b.fresh, b.count)
			cumCount += b.count
			cumFresh += b.fresh
		}
		point.CumulativeCount = cumCount
		point.CumulativeFresh = cumFresh
		point.CumulativePercentFresh = percent(cumFresh, cumCount)
		series.Points = append(series.Points, point)
	}

	return series, nil
}

// ScoreAtCutoff returns the cumulative point at the requested day offset.
// When the series ends before the cutoff, the last available day is used
// and returned as the effective day.
func ScoreAtCutoff(series *schema.CutoffSeries, cutoffDay int) (schema.CutoffPoint, int) {
	maxDay := series.MaxDayOffset()
	effective := cutoffDay
	if effective > maxDay {
		effective = maxDay
	}
	return series.Points[effective], effective
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
