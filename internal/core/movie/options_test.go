// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/movies/internal/platform/apperr"
	"github.com/taibuivan/movies/pkg/pointer"
)

/*
TestParseSort covers the accepted sortBy syntax.
*/
func TestParseSort(t *testing.T) {
	tests := []struct {
		input     string
		wantField SortField
		wantOrder SortOrder
		wantOK    bool
	}{
		{"", SortNone, Unsorted, true},
		{"title", SortByTitle, Ascending, true},
		{"+title", SortByTitle, Ascending, true},
		{"-title", SortByTitle, Descending, true},
		{"-YearOfRelease", SortByYearOfRelease, Descending, true},
		{"TITLE", SortByTitle, Ascending, true},
		{"rating", SortNone, Unsorted, false},
		{"-", SortNone, Unsorted, false},
		{"title; DROP TABLE movies", SortNone, Unsorted, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field, order, ok := ParseSort(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestBuildOptions_Valid(t *testing.T) {
	freezeYear(t, 2025)

	options, err := BuildOptions(ListParams{
		Title:         "  matrix ",
		YearOfRelease: pointer.To(1999),
		SortBy:        "-yearofrelease",
		Page:          3,
		PageSize:      10,
	})
	require.NoError(t, err)

	require.NotNil(t, options.Title)
	assert.Equal(t, "matrix", *options.Title)
	assert.Equal(t, 1999, *options.YearOfRelease)
	assert.Equal(t, SortByYearOfRelease, options.SortField)
	assert.Equal(t, Descending, options.SortOrder)
	assert.Equal(t, 20, options.Offset())
	assert.Empty(t, options.UserID)

	scoped := options.WithUser("viewer-1")
	assert.Equal(t, "viewer-1", scoped.UserID)
	assert.Empty(t, options.UserID, "WithUser must not mutate the receiver")
}

func TestBuildOptions_BlankTitleIsNoFilter(t *testing.T) {
	options, err := BuildOptions(ListParams{Title: "   ", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Nil(t, options.Title)
	assert.Nil(t, options.YearOfRelease)
	assert.Equal(t, SortNone, options.SortField)
	assert.Equal(t, Unsorted, options.SortOrder)
	assert.Equal(t, 0, options.Offset())
}

func TestBuildOptions_Invalid(t *testing.T) {
	freezeYear(t, 2025)

	tests := []struct {
		name       string
		params     ListParams
		wantFields []string
	}{
		{"bad_sort", ListParams{SortBy: "rating", Page: 1, PageSize: 10}, []string{"sortBy"}},
		{"future_year", ListParams{YearOfRelease: pointer.To(2026), Page: 1, PageSize: 10}, []string{"year"}},
		{"page_zero", ListParams{Page: 0, PageSize: 10}, []string{"page"}},
		{"page_size_zero", ListParams{Page: 1, PageSize: 0}, []string{"pageSize"}},
		{"page_size_too_large", ListParams{Page: 1, PageSize: 26}, []string{"pageSize"}},
		{"all_at_once", ListParams{SortBy: "x", YearOfRelease: pointer.To(3000), Page: -1, PageSize: 100}, []string{"sortBy", "year", "page", "pageSize"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildOptions(tt.params)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)

			fields := make([]string, 0, len(ae.Details))
			for _, detail := range ae.Details {
				fields = append(fields, detail.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestBuildOptions_SortMessage(t *testing.T) {
	_, err := BuildOptions(ListParams{SortBy: "rating", Page: 1, PageSize: 10})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "You can only sort by 'title' or 'yearofrelease'", ae.Details[0].Message)
}

func TestBuildOptions_CurrentYearAccepted(t *testing.T) {
	freezeYear(t, 2025)

	_, err := BuildOptions(ListParams{YearOfRelease: pointer.To(2025), Page: 1, PageSize: 25})
	assert.NoError(t, err)
}
