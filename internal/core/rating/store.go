// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import "context"

// Repository defines the persistence contract for ratings.
type Repository interface {
	// RateMovie inserts or replaces the user's rating of a movie.
	RateMovie(ctx context.Context, movieID string, value int, userID string) (bool, error)

	// GetAggregateRating returns the movie's average rating, or nil when unrated.
	GetAggregateRating(ctx context.Context, movieID string) (*float64, error)

	// GetRatingForUser returns the average rating and the user's own rating.
	GetRatingForUser(ctx context.Context, movieID, userID string) (*float64, *int, error)

	// DeleteRating removes the user's rating. It reports false when there was none.
	DeleteRating(ctx context.Context, movieID, userID string) (bool, error)

	// GetRatingsForUser lists every rating the user has given.
	GetRatingsForUser(ctx context.Context, userID string) ([]MovieRating, error)
}

// MovieChecker reports whether a movie exists. The movie repository satisfies it.
type MovieChecker interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}
