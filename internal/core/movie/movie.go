// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package movie defines the catalogue's core entity and everything needed to
store, validate, query and serve it.

Core Responsibility:

  - Catalogue: Movies with a derived slug and a set of genres.
  - Discovery: Filtered, sorted and paginated listings.
  - Ratings: Aggregate and viewer-scoped ratings hydrated on read.

Ratings are written by the rating package; this package only reads them.
*/
package movie

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/movies/pkg/slice"
	"github.com/taibuivan/movies/pkg/slug"
)

// # Domain Entities

// Movie is a catalogue entry.
//
// Rating and UserRating are derived on read and never written. UserRating is
// only set when the request carries a viewer.
type Movie struct {
	ID            string
	Title         string
	YearOfRelease int
	Genres        []string
	Rating        *float64
	UserRating    *int
}

// Slug returns the movie's URL identifier, derived from title and year.
func (m *Movie) Slug() string {
	return slug.Movie(m.Title, m.YearOfRelease)
}

// NormalizeGenres trims every genre, composes it to NFC, drops blanks and
// removes duplicates while keeping first-seen order. Canonically equivalent
// spellings collapse to one entry of the (movieid, name) unique key.
func (m *Movie) NormalizeGenres() {
	trimmed := make([]string, 0, len(m.Genres))
	for _, genre := range m.Genres {
		if genre = norm.NFC.String(strings.TrimSpace(genre)); genre != "" {
			trimmed = append(trimmed, genre)
		}
	}
	m.Genres = slice.Distinct(trimmed)
}

// # Sorting

// SortField is a column listings may be ordered by.
type SortField string

const (
	// SortNone leaves the listing in storage order.
	SortNone SortField = ""

	SortByTitle         SortField = "title"
	SortByYearOfRelease SortField = "yearofrelease"
)

// IsValid reports whether f is [SortNone] or a sortable column.
func (f SortField) IsValid() bool {
	switch f {
	case SortNone, SortByTitle, SortByYearOfRelease:
		return true
	}
	return false
}

// SortOrder is the direction of a sorted listing.
type SortOrder int

const (
	Unsorted SortOrder = iota
	Ascending
	Descending
)

// String returns the SQL keyword for the order, or "" when unsorted.
func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "ASC"
	case Descending:
		return "DESC"
	default:
		return ""
	}
}
