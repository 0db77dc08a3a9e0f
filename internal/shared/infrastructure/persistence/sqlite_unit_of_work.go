package persistence

import (
	"context"
	"database/sql"
)

type sqliteTxKey struct{}

// SQLiteTxInfo carries a SQLite transaction through the context, with
// the same ownership rule as the Postgres TxInfo.
type SQLiteTxInfo struct {
	Tx    *sql.Tx
	Owned bool
}

// WithSQLiteTx derives a context carrying the transaction.
func WithSQLiteTx(ctx context.Context, tx *sql.Tx, owned bool) context.Context {
	return context.WithValue(ctx, sqliteTxKey{}, SQLiteTxInfo{Tx: tx, Owned: owned})
}

// SQLiteTxInfoFromContext returns the transaction the context carries,
// if any.
func SQLiteTxInfoFromContext(ctx context.Context) (SQLiteTxInfo, bool) {
	info, ok := ctx.Value(sqliteTxKey{}).(SQLiteTxInfo)
	if !ok || info.Tx == nil {
		return SQLiteTxInfo{}, false
	}
	return info, true
}

// SQLiteUnitOfWork implements application.UnitOfWork over the local
// SQLite database. Local mode uses it on the same paths as the Postgres
// unit of work, so both drivers share transaction semantics.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

// NewSQLiteUnitOfWork creates a unit of work over the database.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// Begin opens a transaction and stores it in the returned context. A
// context already carrying a transaction joins it without taking
// ownership.
func (u *SQLiteUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := SQLiteTxInfoFromContext(ctx); ok {
		return WithSQLiteTx(ctx, info.Tx, false), nil
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return WithSQLiteTx(ctx, tx, true), nil
}

// Commit commits the transaction when this unit owns it.
func (u *SQLiteUnitOfWork) Commit(ctx context.Context) error {
	info, ok := SQLiteTxInfoFromContext(ctx)
	if !ok {
		return errNoTransaction
	}
	if !info.Owned {
		return nil
	}
	return info.Tx.Commit()
}

// Rollback rolls back the transaction when this unit owns it.
func (u *SQLiteUnitOfWork) Rollback(ctx context.Context) error {
	info, ok := SQLiteTxInfoFromContext(ctx)
	if !ok {
		return errNoTransaction
	}
	if !info.Owned {
		return nil
	}
	return info.Tx.Rollback()
}
