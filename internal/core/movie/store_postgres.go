// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package movie provides the PostgreSQL implementation of the movie store.

It relies on a few PostgreSQL features to keep round-trips low:
  - Array Aggregation: Listing genres are folded into one text[] column per movie.
  - Optional Predicates: "$n IS NULL OR ..." keeps one statement for every filter combination.
  - Upserted Ratings: Aggregates are computed on read, never stored.
  - ACID Transactions: A movie and its genres are written or rolled back together.
*/
package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/movies/internal/platform/apperr"
	"github.com/taibuivan/movies/internal/platform/database/schema"
	"github.com/taibuivan/movies/internal/platform/dberr"
	"github.com/taibuivan/movies/internal/platform/postgres"
)

// DuplicateMessage is reported when another movie already owns a slug.
const DuplicateMessage = "This movie already exists in the system"

// errMovieMissing aborts an update transaction whose target row is gone.
var errMovieMissing = errors.New("movie: no row matched")

// sortColumns is the only source of ORDER BY columns.
var sortColumns = map[SortField]string{
	SortByTitle:         "m." + schema.Movies.Title,
	SortByYearOfRelease: "m." + schema.Movies.YearOfRelease,
}

// likeEscaper neutralises LIKE wildcards in user input. Backslash is the
// default LIKE escape character in PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// # Statements

var (
	insertMovieSQL = fmt.Sprintf(
		`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.Movies.Table, schema.Movies.ID, schema.Movies.Slug, schema.Movies.Title, schema.Movies.YearOfRelease,
	)

	updateMovieSQL = fmt.Sprintf(
		`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		schema.Movies.Table, schema.Movies.Slug, schema.Movies.Title, schema.Movies.YearOfRelease, schema.Movies.ID,
	)

	deleteMovieSQL = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Movies.Table, schema.Movies.ID)

	existsMovieSQL = fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.Movies.Table, schema.Movies.ID)

	// insertGenresSQL writes the whole genre set in one statement.
	insertGenresSQL = fmt.Sprintf(
		`INSERT INTO %s (%s, %s) SELECT $1::uuid, unnest($2::text[])`,
		schema.Genres.Table, schema.Genres.MovieID, schema.Genres.Name,
	)

	deleteGenresSQL = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Genres.Table, schema.Genres.MovieID)

	selectGenresSQL = fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s = $1`,
		schema.Genres.Name, schema.Genres.Table, schema.Genres.MovieID,
	)

	deleteRatingsSQL = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Ratings.Table, schema.Ratings.MovieID)

	// ratingJoins attaches the aggregate rating (r) and the viewer's own rating (myr).
	// The viewer parameter is always $1; a NULL viewer matches no row.
	ratingJoins = fmt.Sprintf(`
		LEFT JOIN %[1]s r ON r.%[2]s = m.%[4]s
		LEFT JOIN %[1]s myr ON myr.%[2]s = m.%[4]s AND myr.%[3]s = $1`,
		schema.Ratings.Table, schema.Ratings.MovieID, schema.Ratings.UserID, schema.Movies.ID,
	)

	ratingColumns = fmt.Sprintf(
		`round(avg(r.%[1]s), 1) AS rating, myr.%[1]s AS userrating`,
		schema.Ratings.Rating,
	)

	groupByMovie = fmt.Sprintf(`GROUP BY m.%s, myr.%s`, schema.Movies.ID, schema.Ratings.Rating)

	// selectMovieSQL is completed with the lookup column; the lookup value is $2.
	selectMovieSQL = fmt.Sprintf(`
		SELECT m.%s, m.%s, m.%s, %s
		FROM %s m %s
		WHERE m.%%s = $2
		%s`,
		schema.Movies.ID, schema.Movies.Title, schema.Movies.YearOfRelease, ratingColumns,
		schema.Movies.Table, ratingJoins,
		groupByMovie,
	)

	selectMovieByIDSQL   = fmt.Sprintf(selectMovieSQL, schema.Movies.ID)
	selectMovieBySlugSQL = fmt.Sprintf(selectMovieSQL, schema.Movies.Slug)

	// listSQL leaves room for ORDER BY; viewer is $1, title $2, year $3, limit $4, offset $5.
	listSQL = fmt.Sprintf(`
		SELECT m.%[1]s, m.%[2]s, m.%[3]s,
			COALESCE(array_agg(DISTINCT g.%[4]s) FILTER (WHERE g.%[4]s IS NOT NULL), '{}') AS genres,
			%[5]s
		FROM %[6]s m
		LEFT JOIN %[7]s g ON g.%[8]s = m.%[1]s %[9]s
		WHERE %[10]s
		%[11]s`,
		schema.Movies.ID, schema.Movies.Title, schema.Movies.YearOfRelease,
		schema.Genres.Name,
		ratingColumns,
		schema.Movies.Table,
		schema.Genres.Table, schema.Genres.MovieID, ratingJoins,
		filterPredicates(2),
		groupByMovie,
	)

	// countSQL binds the movies alias in its own scope; title is $1, year $2.
	countSQL = fmt.Sprintf(`SELECT count(*) FROM %s m WHERE %s`, schema.Movies.Table, filterPredicates(1))
)

// filterPredicates renders the optional title and year filters starting at
// placeholder $first.
func filterPredicates(first int) string {
	return fmt.Sprintf(
		`($%[1]d::text IS NULL OR m.%[3]s ILIKE '%%' || $%[1]d || '%%') AND ($%[2]d::int IS NULL OR m.%[4]s = $%[2]d)`,
		first, first+1, schema.Movies.Title, schema.Movies.YearOfRelease,
	)
}

// # PostgreSQL Repository

// movieRepository implements [Repository] using pgx.
type movieRepository struct {
	db postgres.DB
}

// NewRepository constructs a PostgreSQL backed movie store.
func NewRepository(db postgres.DB) Repository {
	return &movieRepository{db: db}
}

/*
Create inserts a movie and its genres.

Both run in one transaction. Genres are written only when the movie row was
inserted, and nothing is kept if any statement fails.
*/
func (repository *movieRepository) Create(ctx context.Context, movie *Movie) (bool, error) {
	var created bool

	err := postgres.InTx(ctx, repository.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, insertMovieSQL, movie.ID, movie.Slug(), movie.Title, movie.YearOfRelease)
		if err != nil {
			return wrapWrite(err, "insert movie")
		}

		created = tag.RowsAffected() >= 1
		if !created {
			return nil
		}

		if _, err := tx.Exec(ctx, insertGenresSQL, movie.ID, movie.Genres); err != nil {
			return wrapWrite(err, "insert genres")
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

// GetByID returns the movie with the given ID, or nil when none exists.
func (repository *movieRepository) GetByID(ctx context.Context, id, viewerID string) (*Movie, error) {
	return repository.getOne(ctx, selectMovieByIDSQL, id, viewerID)
}

// GetBySlug returns the movie with the given slug, or nil when none exists.
func (repository *movieRepository) GetBySlug(ctx context.Context, slug, viewerID string) (*Movie, error) {
	return repository.getOne(ctx, selectMovieBySlugSQL, slug, viewerID)
}

/*
getOne loads one movie and then its genres.

Both statements read from the same snapshot, so a concurrent update can never
pair the old title with the new genre set.
*/
func (repository *movieRepository) getOne(ctx context.Context, query, key, viewerID string) (*Movie, error) {
	var movie *Movie

	err := postgres.InTx(ctx, repository.db, postgres.ReadSnapshot, func(tx pgx.Tx) error {
		found := &Movie{}
		err := tx.QueryRow(ctx, query, nullable(viewerID), key).Scan(
			&found.ID, &found.Title, &found.YearOfRelease, &found.Rating, &found.UserRating,
		)
		if dberr.IsNoRows(err) {
			return nil
		}
		if err != nil {
			return dberr.Wrap(err, "get movie")
		}

		rows, err := tx.Query(ctx, selectGenresSQL, found.ID)
		if err != nil {
			return dberr.Wrap(err, "get genres")
		}

		genres, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return dberr.Wrap(err, "scan genres")
		}

		found.Genres = genres
		found.NormalizeGenres()
		movie = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return movie, nil
}

// GetAll returns one page of movies with genres and ratings in a single query.
func (repository *movieRepository) GetAll(ctx context.Context, options GetAllOptions) ([]*Movie, error) {
	query, args, err := listQuery(options)
	if err != nil {
		return nil, err
	}

	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list movies")
	}
	defer rows.Close()

	movies := make([]*Movie, 0, options.PageSize)
	for rows.Next() {
		movie := &Movie{}
		if err := rows.Scan(
			&movie.ID, &movie.Title, &movie.YearOfRelease, &movie.Genres, &movie.Rating, &movie.UserRating,
		); err != nil {
			return nil, dberr.Wrap(err, "scan movie")
		}
		movie.NormalizeGenres()
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list movies")
	}

	return movies, nil
}

// listQuery renders the listing statement for options.
//
// The ORDER BY column comes from [sortColumns] only; a field outside it is
// refused even if it slipped past options validation.
func listQuery(options GetAllOptions) (string, []any, error) {
	var builder strings.Builder
	builder.WriteString(listSQL)

	if options.SortField != SortNone {
		column, ok := sortColumns[options.SortField]
		if !ok {
			return "", nil, fmt.Errorf("movie: unsupported sort field %q", options.SortField)
		}

		direction := options.SortOrder
		if direction == Unsorted {
			direction = Ascending
		}

		fmt.Fprintf(&builder, "\n\t\tORDER BY %s %s, m.%s", column, direction, schema.Movies.ID)
	}

	builder.WriteString("\n\t\tLIMIT $4 OFFSET $5")

	args := []any{
		nullable(options.UserID),
		titlePattern(options.Title),
		yearArg(options.YearOfRelease),
		options.PageSize,
		options.Offset(),
	}

	return builder.String(), args, nil
}

// GetCount returns the number of movies matching the title and year filters.
func (repository *movieRepository) GetCount(ctx context.Context, title *string, yearOfRelease *int) (int, error) {
	var count int
	if err := repository.db.QueryRow(ctx, countSQL, titlePattern(title), yearArg(yearOfRelease)).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count movies")
	}
	return count, nil
}

/*
Update rewrites slug, title and year and replaces the genre set.

It reports false, leaving the store untouched, when no movie has the ID.
Readers never observe the moment between deleting old genres and inserting
new ones.
*/
func (repository *movieRepository) Update(ctx context.Context, movie *Movie) (bool, error) {
	err := postgres.InTx(ctx, repository.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateMovieSQL, movie.ID, movie.Slug(), movie.Title, movie.YearOfRelease)
		if err != nil {
			return wrapWrite(err, "update movie")
		}
		if tag.RowsAffected() == 0 {
			return errMovieMissing
		}

		if _, err := tx.Exec(ctx, deleteGenresSQL, movie.ID); err != nil {
			return dberr.Wrap(err, "delete genres")
		}

		if _, err := tx.Exec(ctx, insertGenresSQL, movie.ID, movie.Genres); err != nil {
			return dberr.Wrap(err, "insert genres")
		}

		return nil
	})
	if errors.Is(err, errMovieMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// DeleteByID removes a movie together with its genres and ratings.
func (repository *movieRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	var deleted bool

	err := postgres.InTx(ctx, repository.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteGenresSQL, id); err != nil {
			return dberr.Wrap(err, "delete genres")
		}

		if _, err := tx.Exec(ctx, deleteRatingsSQL, id); err != nil {
			return dberr.Wrap(err, "delete ratings")
		}

		tag, err := tx.Exec(ctx, deleteMovieSQL, id)
		if err != nil {
			return dberr.Wrap(err, "delete movie")
		}

		deleted = tag.RowsAffected() > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// ExistsByID reports whether a movie with the given ID exists.
func (repository *movieRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := repository.db.QueryRow(ctx, existsMovieSQL, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check movie")
	}
	return exists, nil
}

// # Helpers

// wrapWrite classifies write errors, reporting a slug collision as a duplicate movie.
func wrapWrite(err error, action string) error {
	if dberr.IsUniqueViolation(err, schema.Movies.SlugIndex) {
		return apperr.Conflict(DuplicateMessage).WithCause(err)
	}
	return dberr.Wrap(err, action)
}

// nullable maps an empty string to SQL NULL.
func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// titlePattern escapes LIKE wildcards so the title matches as a literal substring.
func titlePattern(title *string) any {
	if title == nil {
		return nil
	}
	return likeEscaper.Replace(*title)
}

func yearArg(year *int) any {
	if year == nil {
		return nil
	}
	return *year
}
