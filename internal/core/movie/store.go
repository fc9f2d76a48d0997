// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import "context"

// # Repository Interfaces

// SlugLookup resolves a movie by slug. The uniqueness validator needs nothing more.
type SlugLookup interface {
	GetBySlug(ctx context.Context, slug, viewerID string) (*Movie, error)
}

// Repository defines the persistence contract for movies.
//
// Lookups return nil (or false) with a nil error when the movie does not
// exist. An error always means the store itself failed.
type Repository interface {
	SlugLookup

	// Create inserts the movie and its genres atomically.
	Create(ctx context.Context, movie *Movie) (bool, error)

	// GetByID returns the movie with its ratings, scoped to viewerID when set.
	GetByID(ctx context.Context, id, viewerID string) (*Movie, error)

	// GetAll returns one page of movies matching options.
	GetAll(ctx context.Context, options GetAllOptions) ([]*Movie, error)

	// GetCount returns how many movies match the filters, ignoring paging.
	GetCount(ctx context.Context, title *string, yearOfRelease *int) (int, error)

	// Update replaces title, year and genres. It reports false when no movie has the ID.
	Update(ctx context.Context, movie *Movie) (bool, error)

	// DeleteByID removes the movie with its genres and ratings.
	DeleteByID(ctx context.Context, id string) (bool, error)

	// ExistsByID reports whether a movie with the ID exists.
	ExistsByID(ctx context.Context, id string) (bool, error)
}
