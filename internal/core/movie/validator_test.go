// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/movies/internal/platform/apperr"
)

const (
	matrixID = "01928f4e-7a3b-7c4d-8e5f-6a7b8c9d0e1f"
	otherID  = "01928f4e-7a3b-7c4d-8e5f-000000000001"
)

func matrix() *Movie {
	return &Movie{ID: matrixID, Title: "The Matrix", YearOfRelease: 1999, Genres: []string{"Action", "Sci-Fi"}}
}

func TestValidator_Validate(t *testing.T) {
	freezeYear(t, 2025)

	tests := []struct {
		name      string
		existing  []*Movie
		movie     func() *Movie
		wantField string
		wantMsg   string
	}{
		{
			name:  "valid_new_movie",
			movie: matrix,
		},
		{
			name:      "missing_title",
			movie:     func() *Movie { m := matrix(); m.Title = " "; return m },
			wantField: "title",
			wantMsg:   "Title is required",
		},
		{
			name:      "no_genres",
			movie:     func() *Movie { m := matrix(); m.Genres = nil; return m },
			wantField: "genres",
			wantMsg:   "1 Genre is required",
		},
		{
			name:      "blank_genres_only",
			movie:     func() *Movie { m := matrix(); m.Genres = []string{"", "  "}; return m },
			wantField: "genres",
			wantMsg:   "1 Genre is required",
		},
		{
			name:      "future_year",
			movie:     func() *Movie { m := matrix(); m.YearOfRelease = 2026; return m },
			wantField: "yearOfRelease",
			wantMsg:   "Must be less than or equal to 2025",
		},
		{
			name:      "slug_owned_by_other_movie",
			existing:  []*Movie{{ID: otherID, Title: "The Matrix", YearOfRelease: 1999, Genres: []string{"Action"}}},
			movie:     matrix,
			wantField: "slug",
			wantMsg:   "This movie already exists in the system",
		},
		{
			name:     "slug_owned_by_same_movie",
			existing: []*Movie{matrix()},
			movie:    matrix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewValidator(newMemoryRepository(tt.existing...))

			err := validator.Validate(context.Background(), tt.movie())

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.wantField, ae.Details[0].Field)
			assert.Equal(t, tt.wantMsg, ae.Details[0].Message)
		})
	}
}

func TestValidator_CollectsEveryFailure(t *testing.T) {
	freezeYear(t, 2025)

	validator := NewValidator(newMemoryRepository())

	err := validator.Validate(context.Background(), &Movie{YearOfRelease: 2030})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 4)
}

func TestValidator_LookupFailureIsNotValidation(t *testing.T) {
	repo := newMemoryRepository()
	repo.err = errors.New("connection reset")

	err := NewValidator(repo).Validate(context.Background(), matrix())

	require.Error(t, err)
	assert.Nil(t, apperr.As(err))
	assert.ErrorIs(t, err, repo.err)
}
