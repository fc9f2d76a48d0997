// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"strings"
	"time"

	"github.com/taibuivan/movies/internal/platform/validate"
	"github.com/taibuivan/movies/pkg/pagination"
)

// sortMessage is reported on the sortBy field for any unknown sort column.
const sortMessage = "You can only sort by 'title' or 'yearofrelease'"

// currentYear is the latest acceptable release year. Tests may replace it.
var currentYear = func() int { return time.Now().UTC().Year() }

// ListParams are the raw listing inputs as they arrive from a client.
type ListParams struct {
	Title         string
	YearOfRelease *int
	SortBy        string
	Page          int
	PageSize      int
	UserID        string
}

// GetAllOptions is a validated listing query.
type GetAllOptions struct {
	Title         *string
	YearOfRelease *int
	SortField     SortField
	SortOrder     SortOrder
	Page          int
	PageSize      int

	// UserID scopes UserRating. Empty means anonymous.
	UserID string
}

// WithUser returns a copy of the options scoped to the given viewer.
func (o GetAllOptions) WithUser(userID string) GetAllOptions {
	o.UserID = userID
	return o
}

// Offset returns the number of rows skipped before the requested page.
func (o GetAllOptions) Offset() int {
	return pagination.Params{Page: o.Page, PageSize: o.PageSize}.Offset()
}

// ParseSort splits a sortBy expression into field and direction.
//
// "-field" sorts descending, "+field" or "field" ascending, and "" leaves the
// listing unsorted. Field names are case-insensitive. ok is false for any
// field outside the accepted set.
func ParseSort(sortBy string) (field SortField, order SortOrder, ok bool) {
	sortBy = strings.TrimSpace(sortBy)
	if sortBy == "" {
		return SortNone, Unsorted, true
	}

	order = Ascending
	switch sortBy[0] {
	case '-':
		order = Descending
		sortBy = sortBy[1:]
	case '+':
		sortBy = sortBy[1:]
	}

	field = SortField(strings.ToLower(sortBy))
	if field == SortNone || !field.IsValid() {
		return SortNone, Unsorted, false
	}

	return field, order, true
}

/*
BuildOptions validates raw listing inputs and converts them to [GetAllOptions].

Every failing rule is reported in one VALIDATION_ERROR so a client can fix all
of them at once. A blank title means no title filter.
*/
func BuildOptions(params ListParams) (GetAllOptions, error) {
	field, order, sortOK := ParseSort(params.SortBy)

	validator := &validate.Validator{}
	validator.Custom("sortBy", !sortOK, sortMessage)
	if params.YearOfRelease != nil {
		validator.AtMost("year", *params.YearOfRelease, currentYear())
	}
	validator.Custom("page", params.Page < 1, "Must be greater than or equal to 1")
	validator.Range("pageSize", params.PageSize, 1, pagination.MaxPageSize)

	if err := validator.Err(); err != nil {
		return GetAllOptions{}, err
	}

	options := GetAllOptions{
		YearOfRelease: params.YearOfRelease,
		SortField:     field,
		SortOrder:     order,
		Page:          params.Page,
		PageSize:      params.PageSize,
		UserID:        params.UserID,
	}

	if title := strings.TrimSpace(params.Title); title != "" {
		options.Title = &title
	}

	return options, nil
}
