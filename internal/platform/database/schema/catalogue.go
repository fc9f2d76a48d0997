// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables, columns and constraints of the catalogue.
//
// Repositories build their SQL from these descriptors so a rename in a
// migration is a one-line change here.
package schema

// MoviesTable represents the 'movies' table
type MoviesTable struct {
	Table         string
	ID            string
	Slug          string
	Title         string
	YearOfRelease string

	// SlugIndex is the unique index guarding one movie per slug.
	SlugIndex string
}

// Movies is the schema definition for movies
var Movies = MoviesTable{
	Table:         "movies",
	ID:            "id",
	Slug:          "slug",
	Title:         "title",
	YearOfRelease: "yearofrelease",
	SlugIndex:     "movies_slug_idx",
}

// GenresTable represents the 'genres' table
type GenresTable struct {
	Table   string
	MovieID string
	Name    string
}

// Genres is the schema definition for genres
var Genres = GenresTable{
	Table:   "genres",
	MovieID: "movieid",
	Name:    "name",
}

// RatingsTable represents the 'ratings' table
type RatingsTable struct {
	Table   string
	UserID  string
	MovieID string
	Rating  string

	// MovieFK is the foreign key from ratings to movies.
	MovieFK string
}

// Ratings is the schema definition for ratings
var Ratings = RatingsTable{
	Table:   "ratings",
	UserID:  "userid",
	MovieID: "movieid",
	Rating:  "rating",
	MovieFK: "ratings_movieid_fkey",
}
