// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"log/slog"

	"github.com/taibuivan/movies/internal/platform/apperr"
	"github.com/taibuivan/movies/pkg/uuid"
)

// # Service Layer

// Service orchestrates the business logic of the movie catalogue.
type Service struct {
	repo      Repository
	validator *Validator
	logger    *slog.Logger
}

// NewService constructs a new [Service]. Slug uniqueness is checked against repo.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: NewValidator(repo),
		logger:    logger,
	}
}

// # Lookups

/*
Get fetches a movie by UUID or slug.

Identifiers that parse as a UUID are looked up by ID; anything else is treated
as a slug.

Returns:
  - *Movie: The movie with ratings, UserRating scoped to viewerID
  - error: NOT_FOUND if no movie matches
*/
func (service *Service) Get(ctx context.Context, idOrSlug, viewerID string) (*Movie, error) {
	var (
		movie *Movie
		err   error
	)

	if uuid.IsValid(idOrSlug) {
		movie, err = service.repo.GetByID(ctx, idOrSlug, viewerID)
	} else {
		movie, err = service.repo.GetBySlug(ctx, idOrSlug, viewerID)
	}

	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, apperr.NotFound("Movie")
	}

	return movie, nil
}

// List returns one page of movies and the total number of matches.
func (service *Service) List(ctx context.Context, options GetAllOptions) ([]*Movie, int, error) {
	movies, err := service.repo.GetAll(ctx, options)
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repo.GetCount(ctx, options.Title, options.YearOfRelease)
	if err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}

// # Mutations

/*
Create validates and stores a new movie.

A missing ID is filled with a fresh UUIDv7. Genres are trimmed and deduplicated
before validation.
*/
func (service *Service) Create(ctx context.Context, movie *Movie) (*Movie, error) {
	if movie.ID == "" {
		movie.ID = uuid.New()
	}
	movie.NormalizeGenres()

	if err := service.validator.Validate(ctx, movie); err != nil {
		return nil, err
	}

	created, err := service.repo.Create(ctx, movie)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, apperr.Conflict(DuplicateMessage)
	}

	service.logger.Info("movie_created",
		slog.String("movie_id", movie.ID),
		slog.String("slug", movie.Slug()),
	)

	return movie, nil
}

/*
Update replaces a movie's title, year and genres.

The stored movie is read back afterwards so the result carries current
ratings for viewerID.

Returns:
  - error: NOT_FOUND if no movie has the ID, VALIDATION_ERROR on rule failures
*/
func (service *Service) Update(ctx context.Context, movie *Movie, viewerID string) (*Movie, error) {
	if !uuid.IsValid(movie.ID) {
		return nil, apperr.NotFound("Movie")
	}
	movie.NormalizeGenres()

	if err := service.validator.Validate(ctx, movie); err != nil {
		return nil, err
	}

	updated, err := service.repo.Update(ctx, movie)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperr.NotFound("Movie")
	}

	service.logger.Info("movie_updated", slog.String("movie_id", movie.ID))

	return service.Get(ctx, movie.ID, viewerID)
}

// Delete removes a movie with its genres and ratings.
func (service *Service) Delete(ctx context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperr.NotFound("Movie")
	}

	deleted, err := service.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Movie")
	}

	service.logger.Warn("movie_deleted", slog.String("movie_id", id))

	return nil
}
