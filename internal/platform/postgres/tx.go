// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// InTx runs fn inside a transaction opened on db with the given options.
//
// # Guarantees
//
// The transaction commits only when fn returns nil. Any error from fn, a panic,
// or a cancelled context rolls back every statement fn issued, and the pinned
// connection is always returned to the pool.
func InTx(ctx context.Context, db DB, options pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	transaction, err := db.BeginTx(ctx, options)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}

	// Rollback after a successful Commit is a no-op.
	defer func() { _ = transaction.Rollback(ctx) }()

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: failed to commit transaction: %w", err)
	}

	return nil
}
