// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"log/slog"

	"github.com/taibuivan/movies/internal/platform/apperr"
	"github.com/taibuivan/movies/internal/platform/validate"
	"github.com/taibuivan/movies/pkg/pointer"
	"github.com/taibuivan/movies/pkg/uuid"
)

// Service orchestrates voting on movies.
type Service struct {
	repo   Repository
	movies MovieChecker
	logger *slog.Logger
}

// NewService constructs a new rating [Service].
func NewService(repo Repository, movies MovieChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, movies: movies, logger: logger}
}

/*
Rate records the user's rating of a movie, replacing any earlier vote.

Returns:
  - Summary: The movie's rating after the vote
  - error: VALIDATION_ERROR for a value outside [MinValue, MaxValue],
    NOT_FOUND if the movie does not exist
*/
func (service *Service) Rate(ctx context.Context, movieID string, value int, userID string) (Summary, error) {
	if err := (&validate.Validator{}).Range("rating", value, MinValue, MaxValue).Err(); err != nil {
		return Summary{}, err
	}

	if err := service.requireMovie(ctx, movieID); err != nil {
		return Summary{}, err
	}

	if _, err := service.repo.RateMovie(ctx, movieID, value, userID); err != nil {
		return Summary{}, err
	}

	summary, err := service.Summary(ctx, movieID, userID)
	if err != nil {
		return Summary{}, err
	}

	service.logger.Info("movie_rated",
		slog.String("movie_id", movieID),
		slog.String("user_id", userID),
		slog.Int("rating", value),
		slog.Float64("average", pointer.Val(summary.Rating)),
	)

	return summary, nil
}

// Summary returns a movie's average rating and, with a userID, that user's vote.
func (service *Service) Summary(ctx context.Context, movieID, userID string) (Summary, error) {
	if userID == "" {
		average, err := service.repo.GetAggregateRating(ctx, movieID)
		if err != nil {
			return Summary{}, err
		}
		return Summary{Rating: average}, nil
	}

	average, own, err := service.repo.GetRatingForUser(ctx, movieID, userID)
	if err != nil {
		return Summary{}, err
	}

	return Summary{Rating: average, UserRating: own}, nil
}

// Delete removes the user's rating of a movie.
func (service *Service) Delete(ctx context.Context, movieID, userID string) error {
	if !uuid.IsValid(movieID) {
		return apperr.NotFound("Rating")
	}

	deleted, err := service.repo.DeleteRating(ctx, movieID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Rating")
	}

	service.logger.Info("movie_rating_deleted",
		slog.String("movie_id", movieID),
		slog.String("user_id", userID),
	)

	return nil
}

// ListForUser returns every rating the user has given.
func (service *Service) ListForUser(ctx context.Context, userID string) ([]MovieRating, error) {
	return service.repo.GetRatingsForUser(ctx, userID)
}

func (service *Service) requireMovie(ctx context.Context, movieID string) error {
	if !uuid.IsValid(movieID) {
		return apperr.NotFound("Movie")
	}

	exists, err := service.movies.ExistsByID(ctx, movieID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Movie")
	}

	return nil
}
