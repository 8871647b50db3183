package core

import "errors"

// Input errors surfaced to the user. Batch runs record these per file
// instead of aborting.
var (
	ErrNoReviews     = errors.New("no reviews found in input")
	ErrNoUsableDates = errors.New("no reviews with parseable dates")
	ErrNoRelease     = errors.New("release date could not be determined")
)
