// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is the number of items per page if not specified.
	DefaultPageSize = 10
	// MaxPageSize is the upper bound for items per page to prevent system abuse.
	MaxPageSize = 25
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the page and page size requested by a client.
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the SQL OFFSET value derived from [Page] and [PageSize].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	Total       int  `json:"total"`
	HasNextPage bool `json:"hasNextPage"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(page, pageSize, total int) Meta {
	return Meta{
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		HasNextPage: total > page*pageSize,
	}
}

// FromRequest parses "page" and "pageSize" query parameters from an HTTP request.
//
// # Defaults
//
// Missing values fall back to [DefaultPage] and [DefaultPageSize]. Values that are
// present but malformed become 0 so that options validation rejects them instead
// of silently serving a different page.
func FromRequest(r *http.Request) Params {
	return Params{
		Page:     parseIntParam(r, "page", DefaultPage),
		PageSize: parseIntParam(r, "pageSize", DefaultPageSize),
	}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}

	return n
}
