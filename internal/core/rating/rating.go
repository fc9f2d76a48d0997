// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package rating records how users score movies.

A user holds at most one rating per movie; voting again replaces it. Averages
are computed on read and rounded to one decimal place.
*/
package rating

// Bounds of an accepted rating value.
const (
	MinValue = 1
	MaxValue = 5
)

// MovieRating is a user's rating joined with the rated movie's slug.
type MovieRating struct {
	MovieID string `json:"movieId"`
	Slug    string `json:"slug"`
	Rating  int    `json:"rating"`
}

// Summary is a movie's aggregate rating with the viewer's own vote.
type Summary struct {
	Rating     *float64 `json:"rating"`
	UserRating *int     `json:"userRating,omitempty"`
}
