// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pgtest opens a migrated PostgreSQL pool for repository tests that
// must run real SQL.
//
// Tests using it are skipped unless DATABASE_TEST_URL is set. Packages run in
// parallel against the same database, so callers isolate their rows with
// [Token] instead of truncating tables.
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/movies/internal/platform/migration"
	"github.com/taibuivan/movies/internal/platform/postgres"
	"github.com/taibuivan/movies/pkg/uuid"
)

// EnvDatabaseURL names the variable holding the test database DSN.
const EnvDatabaseURL = "DATABASE_TEST_URL"

// Open applies data/migrations to the test database and returns a pool that
// is closed when the test ends.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skip(EnvDatabaseURL + " not set")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, migrationsPath(), logger))

	pool, err := postgres.NewPool(context.Background(), dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// Token returns a short random word for tagging the titles a test creates.
func Token() string {
	id := strings.ReplaceAll(uuid.New(), "-", "")
	return id[len(id)-12:]
}

// migrationsPath resolves data/migrations from this file's location.
func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
