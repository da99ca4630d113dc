package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
)

type txStore struct {
	tx *sql.Tx
	c  conn
}

func newTx(tx *sql.Tx, d Dialect) *txStore {
	return &txStore{tx: tx, c: conn{q: tx, d: d}}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer DB stays open

// Ping is a no-op, the connection is already held by the transaction.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users         { return &usersRepo{t.c} }
func (t *txStore) Domains() store.Domains     { return &domainsRepo{t.c} }
func (t *txStore) Cards() store.Cards         { return &cardsRepo{t.c} }
func (t *txStore) Credits() store.Credits     { return &creditsRepo{t.c} }
func (t *txStore) Hostnames() store.Hostnames { return &hostnamesRepo{t.c} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
