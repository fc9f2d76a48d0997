// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/movies/internal/platform/apperr"
)

// Wrap inspects a database error and classifies it.
//
// # Classification
//
//   - unique_violation: CONFLICT [apperr.AppError] (the cause is kept for logging).
//   - foreign_key_violation: NOT_FOUND, the referenced row is gone.
//   - anything else: a wrapped error that [respond.Error] renders as INTERNAL_ERROR.
//
// [pgx.ErrNoRows] is not an error at this layer; repositories translate it into
// an absent result before calling Wrap.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Storage-level uniqueness backstop
	if IsUniqueViolation(err, "") {
		return apperr.Conflict("Resource already exists").WithCause(err)
	}

	// 2. Dangling reference
	if IsForeignKeyViolation(err) {
		return apperr.NotFound("Resource").WithCause(err)
	}

	// 3. Everything else is a persistence failure
	return fmt.Errorf("postgres: failed to %s: %w", action, err)
}

// IsNoRows reports whether err signals an empty single-row result.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a Postgres unique_violation.
// When constraint is non-empty the violated constraint or index must match it.
func IsUniqueViolation(err error, constraint string) bool {
	pgErr := asPgError(err)
	if pgErr == nil || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsForeignKeyViolation reports whether err is a Postgres foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	pgErr := asPgError(err)
	return pgErr != nil && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// asPgError extracts the server error from err's chain.
func asPgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}
