package sqlite

import (
	"context"
	"database/sql"

	"github.com/sundialhq/memberd/internal/accounts/store"
)

// txStore wraps a *sql.Tx so repositories obtained from it run inside
// the transaction.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore { return &txStore{tx: tx} }

func (t *txStore) Users() store.Users                 { return &usersRepo{q: t.tx} }
func (t *txStore) Organizations() store.Organizations { return &organizationsRepo{q: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Nested transactions are not supported; a Tx-scoped store hands back
// itself so callers can reuse WithTx-style helpers inside a transaction.
func (t *txStore) Tx(_ context.Context) (store.Tx, error) { return t, nil }

func (t *txStore) WithTx(_ context.Context, fn func(tx store.Tx) error) error {
	return fn(t)
}

func (t *txStore) ApplyMigrations() error { return store.ErrTxUnsupported }
func (t *txStore) Close() error           { return store.ErrTxUnsupported }

func (t *txStore) Ping(_ context.Context) error { return nil }
