// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction and the body decoding rules behind
a small surface so every handler fails the same way on bad input.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/movies/internal/platform/apperr"
	"github.com/taibuivan/movies/internal/platform/ctxutil"
	"github.com/taibuivan/movies/internal/platform/sec"
	"github.com/taibuivan/movies/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies. Movie payloads are small.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into target.

Unknown fields are rejected and a body carrying more than one JSON value is
treated as malformed.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}

	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
OptionalInt parses an integer query parameter.

A missing or blank value yields nil. A malformed value is a validation error
on the given field.
*/
func OptionalInt(request *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(request.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{Field: name, Message: "Must be an integer"})
	}

	return &value, nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	claims := Claims(request)
	if claims == nil {
		return "", apperr.Unauthorized("Authentication required")
	}

	return claims.UserID, nil
}
