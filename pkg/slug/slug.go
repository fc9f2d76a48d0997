// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates the canonical URL identifier of a movie.
//
// # Usage
//
// Slugs are alternate lookup keys for movies (e.g., "the-matrix-1999"). The
// same function computes the value persisted on write and the value checked by
// the uniqueness validator, so both sides always agree.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// disallowed matches every character outside ASCII letters, digits, space, underscore and hyphen.
var disallowed = regexp.MustCompile(`[^0-9A-Za-z _-]`)

// Movie derives the slug of a movie from its title and release year.
//
// # Transformation Pipeline
//
// 1. Strips characters outside [0-9A-Za-z _-]. Input is not normalized, so a
// decomposed "e\u0301" keeps its base letter while a composed "\u00e9" is dropped.
// 2. Converts to lowercase.
// 3. Replaces spaces with hyphens.
// 4. Appends "-<year>".
func Movie(title string, year int) string {
	result := disallowed.ReplaceAllString(title, "")
	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")

	return result + "-" + strconv.Itoa(year)
}
