// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package rating

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/movies/internal/platform/apperr"
	"github.com/taibuivan/movies/internal/platform/database/schema"
	"github.com/taibuivan/movies/internal/platform/dberr"
	"github.com/taibuivan/movies/internal/platform/postgres"
)

// # Statements

var (
	upsertRatingSQL = fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s) VALUES ($1, $2, $3)
		ON CONFLICT (%[2]s, %[3]s) DO UPDATE SET %[4]s = EXCLUDED.%[4]s`,
		schema.Ratings.Table, schema.Ratings.UserID, schema.Ratings.MovieID, schema.Ratings.Rating,
	)

	aggregateRatingSQL = fmt.Sprintf(
		`SELECT round(avg(%s), 1) FROM %s WHERE %s = $1`,
		schema.Ratings.Rating, schema.Ratings.Table, schema.Ratings.MovieID,
	)

	userRatingSQL = fmt.Sprintf(`
		SELECT round(avg(r.%[1]s), 1),
			(SELECT my.%[1]s FROM %[2]s my WHERE my.%[3]s = $1 AND my.%[4]s = $2)
		FROM %[2]s r
		WHERE r.%[3]s = $1`,
		schema.Ratings.Rating, schema.Ratings.Table, schema.Ratings.MovieID, schema.Ratings.UserID,
	)

	deleteRatingSQL = fmt.Sprintf(
		`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Ratings.Table, schema.Ratings.MovieID, schema.Ratings.UserID,
	)

	ratingsForUserSQL = fmt.Sprintf(`
		SELECT r.%s, m.%s, r.%s
		FROM %s r
		INNER JOIN %s m ON m.%s = r.%s
		WHERE r.%s = $1`,
		schema.Ratings.MovieID, schema.Movies.Slug, schema.Ratings.Rating,
		schema.Ratings.Table,
		schema.Movies.Table, schema.Movies.ID, schema.Ratings.MovieID,
		schema.Ratings.UserID,
	)
)

// # PostgreSQL Repository

// ratingRepository implements [Repository] using pgx.
type ratingRepository struct {
	db postgres.DB
}

// NewRepository constructs a PostgreSQL backed rating store.
func NewRepository(db postgres.DB) Repository {
	return &ratingRepository{db: db}
}

// RateMovie upserts the rating in a single statement, so concurrent votes by
// the same user on the same movie leave exactly one row.
func (repository *ratingRepository) RateMovie(ctx context.Context, movieID string, value int, userID string) (bool, error) {
	tag, err := repository.db.Exec(ctx, upsertRatingSQL, userID, movieID, value)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return false, apperr.NotFound("Movie").WithCause(err)
		}
		return false, dberr.Wrap(err, "rate movie")
	}
	return tag.RowsAffected() > 0, nil
}

// GetAggregateRating returns the rounded average, or nil for an unrated movie.
func (repository *ratingRepository) GetAggregateRating(ctx context.Context, movieID string) (*float64, error) {
	var average *float64
	if err := repository.db.QueryRow(ctx, aggregateRatingSQL, movieID).Scan(&average); err != nil {
		return nil, dberr.Wrap(err, "get rating")
	}
	return average, nil
}

// GetRatingForUser returns the rounded average and the user's own rating.
// Either is nil when absent.
func (repository *ratingRepository) GetRatingForUser(ctx context.Context, movieID, userID string) (*float64, *int, error) {
	var (
		average *float64
		own     *int
	)
	if err := repository.db.QueryRow(ctx, userRatingSQL, movieID, userID).Scan(&average, &own); err != nil {
		return nil, nil, dberr.Wrap(err, "get user rating")
	}
	return average, own, nil
}

// DeleteRating removes exactly the (movie, user) pair.
func (repository *ratingRepository) DeleteRating(ctx context.Context, movieID, userID string) (bool, error) {
	tag, err := repository.db.Exec(ctx, deleteRatingSQL, movieID, userID)
	if err != nil {
		return false, dberr.Wrap(err, "delete rating")
	}
	return tag.RowsAffected() > 0, nil
}

// GetRatingsForUser lists the user's ratings with each movie's slug.
func (repository *ratingRepository) GetRatingsForUser(ctx context.Context, userID string) ([]MovieRating, error) {
	rows, err := repository.db.Query(ctx, ratingsForUserSQL, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list user ratings")
	}

	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (MovieRating, error) {
		var rating MovieRating
		err := row.Scan(&rating.MovieID, &rating.Slug, &rating.Rating)
		return rating, err
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan user ratings")
	}

	return ratings, nil
}
