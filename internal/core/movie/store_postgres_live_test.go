// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/movies/internal/core/rating"
	"github.com/taibuivan/movies/internal/platform/postgres/pgtest"
	"github.com/taibuivan/movies/pkg/pointer"
	"github.com/taibuivan/movies/pkg/slice"
	"github.com/taibuivan/movies/pkg/uuid"
)

/*
TestRepository_Postgres runs the movie store against a migrated database.
*/
func TestRepository_Postgres(t *testing.T) {
	pool := pgtest.Open(t)
	ctx := context.Background()
	repo := NewRepository(pool)
	ratings := rating.NewRepository(pool)

	tok := pgtest.Token()
	matrix := &Movie{ID: uuid.New(), Title: "The Matrix " + tok, YearOfRelease: 1999, Genres: []string{"Action", "Sci-Fi", "Thriller"}}
	inception := &Movie{ID: uuid.New(), Title: "Inception " + tok, YearOfRelease: 2010, Genres: []string{"Sci-Fi"}}
	percent := &Movie{ID: uuid.New(), Title: "100% " + tok, YearOfRelease: 2000, Genres: []string{"Drama"}}

	for _, movie := range []*Movie{matrix, inception, percent} {
		created, err := repo.Create(ctx, movie)
		require.NoError(t, err)
		require.True(t, created)

		id := movie.ID
		t.Cleanup(func() { _, _ = repo.DeleteByID(context.Background(), id) })
	}

	titles := func(options GetAllOptions) []string {
		t.Helper()
		movies, err := repo.GetAll(ctx, options)
		require.NoError(t, err)
		return slice.Map(movies, func(m *Movie) string { return m.Title })
	}

	t.Run("get_returns_every_genre", func(t *testing.T) {
		got, err := repo.GetByID(ctx, matrix.ID, "")
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.ElementsMatch(t, matrix.Genres, got.Genres)
		assert.Nil(t, got.Rating)
		assert.Nil(t, got.UserRating)

		bySlug, err := repo.GetBySlug(ctx, matrix.Slug(), "")
		require.NoError(t, err)
		require.NotNil(t, bySlug)
		assert.Equal(t, matrix.ID, bySlug.ID)
	})

	t.Run("duplicate_slug_is_conflict", func(t *testing.T) {
		_, err := repo.Create(ctx, &Movie{ID: uuid.New(), Title: matrix.Title, YearOfRelease: 1999, Genres: []string{"Action"}})
		assert.Error(t, err)
	})

	t.Run("title_filter_is_case_insensitive", func(t *testing.T) {
		options := GetAllOptions{Title: pointer.To("matrix " + tok), Page: 1, PageSize: 25}
		assert.Equal(t, []string{matrix.Title}, titles(options))

		count, err := repo.GetCount(ctx, options.Title, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("like_wildcards_match_literally", func(t *testing.T) {
		assert.Equal(t, []string{percent.Title}, titles(GetAllOptions{Title: pointer.To("% " + tok), Page: 1, PageSize: 25}))
	})

	t.Run("year_filter", func(t *testing.T) {
		count, err := repo.GetCount(ctx, pointer.To(tok), pointer.To(2010))
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("descending_title_sort", func(t *testing.T) {
		options, err := BuildOptions(ListParams{Title: tok, SortBy: "-title", Page: 1, PageSize: 25})
		require.NoError(t, err)

		assert.Equal(t, []string{matrix.Title, inception.Title, percent.Title}, titles(options))
	})

	t.Run("paging", func(t *testing.T) {
		options, err := BuildOptions(ListParams{Title: tok, SortBy: "title", Page: 2, PageSize: 2})
		require.NoError(t, err)

		assert.Equal(t, []string{matrix.Title}, titles(options))
	})

	t.Run("ratings_survive_genre_join", func(t *testing.T) {
		viewer, other := uuid.New(), uuid.New()
		_, err := ratings.RateMovie(ctx, matrix.ID, 5, viewer)
		require.NoError(t, err)
		_, err = ratings.RateMovie(ctx, matrix.ID, 2, other)
		require.NoError(t, err)

		movies, err := repo.GetAll(ctx, GetAllOptions{Title: pointer.To("matrix " + tok), Page: 1, PageSize: 25, UserID: viewer})
		require.NoError(t, err)
		require.Len(t, movies, 1)

		listed := movies[0]
		require.NotNil(t, listed.Rating)
		assert.InDelta(t, 3.5, *listed.Rating, 1e-9)
		require.NotNil(t, listed.UserRating)
		assert.Equal(t, 5, *listed.UserRating)
		assert.ElementsMatch(t, matrix.Genres, listed.Genres)

		single, err := repo.GetByID(ctx, matrix.ID, viewer)
		require.NoError(t, err)
		require.NotNil(t, single.Rating)
		assert.InDelta(t, 3.5, *single.Rating, 1e-9)
		assert.Equal(t, pointer.To(5), single.UserRating)

		anonymous, err := repo.GetByID(ctx, matrix.ID, "")
		require.NoError(t, err)
		assert.Nil(t, anonymous.UserRating)
	})

	t.Run("update_replaces_genres", func(t *testing.T) {
		changed := &Movie{ID: inception.ID, Title: inception.Title, YearOfRelease: 2010, Genres: []string{"Heist", "Drama"}}
		updated, err := repo.Update(ctx, changed)
		require.NoError(t, err)
		require.True(t, updated)

		got, err := repo.GetByID(ctx, inception.ID, "")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Heist", "Drama"}, got.Genres)

		missing, err := repo.Update(ctx, &Movie{ID: uuid.New(), Title: "Nowhere " + tok, YearOfRelease: 2000, Genres: []string{"Drama"}})
		require.NoError(t, err)
		assert.False(t, missing)
	})

	t.Run("delete_cascades", func(t *testing.T) {
		_, err := ratings.RateMovie(ctx, percent.ID, 4, uuid.New())
		require.NoError(t, err)

		deleted, err := repo.DeleteByID(ctx, percent.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		exists, err := repo.ExistsByID(ctx, percent.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		average, err := ratings.GetAggregateRating(ctx, percent.ID)
		require.NoError(t, err)
		assert.Nil(t, average)
	})
}
