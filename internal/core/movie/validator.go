// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"strings"

	"github.com/taibuivan/movies/internal/platform/validate"
)

// Validator enforces the business rules a movie must satisfy before it is written.
type Validator struct {
	lookup SlugLookup
}

// NewValidator constructs a [Validator] that checks slug ownership through lookup.
func NewValidator(lookup SlugLookup) *Validator {
	return &Validator{lookup: lookup}
}

/*
Validate checks the movie's fields and then the ownership of its slug.

A slug held by a different movie fails on the "slug" field; a slug held by the
same movie passes, so an update that keeps title and year is accepted.

Returns:
  - error: VALIDATION_ERROR listing every failed rule, the lookup's own error
    if the store could not be queried, or nil
*/
func (validator *Validator) Validate(ctx context.Context, movie *Movie) error {
	rules := &validate.Validator{}

	rules.Required("id", movie.ID, "Id is required")
	rules.Required("title", movie.Title, "Title is required")
	rules.Custom("genres", !hasGenre(movie.Genres), "1 Genre is required")
	rules.AtMost("yearOfRelease", movie.YearOfRelease, currentYear())

	existing, err := validator.lookup.GetBySlug(ctx, movie.Slug(), "")
	if err != nil {
		return err
	}
	rules.Custom("slug", existing != nil && existing.ID != movie.ID, DuplicateMessage)

	return rules.Err()
}

func hasGenre(genres []string) bool {
	for _, genre := range genres {
		if strings.TrimSpace(genre) != "" {
			return true
		}
	}
	return false
}
