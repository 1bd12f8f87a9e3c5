// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// treeLockKey is the advisory lock key guarding the category tree.
// Any 64-bit constant works as long as every writer uses the same one.
const treeLockKey int64 = 0x626f6f6b74726565 // "booktree"

// DBTX is satisfied by both *sql.DB and *sql.Tx, so store methods run
// unchanged inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// executor returns the transaction carried by ctx, or db when there is none.
func executor(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// ErrNoTransaction is returned when a lock is requested outside WithinTx.
var ErrNoTransaction = errors.New("store: operation requires a transaction")

// TxManager runs functions inside a database transaction. The transaction
// travels in the context; every store call made with that context joins it.
type TxManager struct {
	db *sql.DB
}

// NewTxManager returns a TxManager over db.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// WithinTx runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise. Nested calls reuse the outer transaction.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("rollback failed", "error", rbErr)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LockTree takes the exclusive tree lock for the rest of the transaction.
// Category create, update and remove hold it so tree checks and writes
// never interleave.
func (m *TxManager) LockTree(ctx context.Context) error {
	return m.advisoryLock(ctx, `SELECT pg_advisory_xact_lock($1)`)
}

// LockTreeShared takes the shared tree lock. Book writers hold it so a
// category cannot vanish between the existence check and the insert.
func (m *TxManager) LockTreeShared(ctx context.Context) error {
	return m.advisoryLock(ctx, `SELECT pg_advisory_xact_lock_shared($1)`)
}

func (m *TxManager) advisoryLock(ctx context.Context, query string) error {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	if !ok {
		return ErrNoTransaction
	}
	if _, err := tx.ExecContext(ctx, query, treeLockKey); err != nil {
		return fmt.Errorf("lock tree: %w", err)
	}
	return nil
}
