package persistence

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUnitOfWork implements application.UnitOfWork over a pgx pool.
// It backs the pairing redemption path, where the already-paired checks
// and the symmetric connection save must observe one consistent snapshot.
type PostgresUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPostgresUnitOfWork creates a unit of work over the pool.
func NewPostgresUnitOfWork(pool *pgxpool.Pool) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{pool: pool}
}

// Begin opens a transaction and stores it in the returned context. A
// context already carrying a transaction joins it without taking
// ownership, so nested units commit and roll back as no-ops.
func (u *PostgresUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := TxInfoFromContext(ctx); ok {
		return WithTx(ctx, info.Tx, false), nil
	}

	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return WithTx(ctx, tx, true), nil
}

// Commit commits the transaction when this unit owns it.
func (u *PostgresUnitOfWork) Commit(ctx context.Context) error {
	info, ok := TxInfoFromContext(ctx)
	if !ok {
		return errNoTransaction
	}
	if !info.Owned {
		return nil
	}
	return info.Tx.Commit(ctx)
}

// Rollback rolls back the transaction when this unit owns it.
func (u *PostgresUnitOfWork) Rollback(ctx context.Context) error {
	info, ok := TxInfoFromContext(ctx)
	if !ok {
		return errNoTransaction
	}
	if !info.Owned {
		return nil
	}
	return info.Tx.Rollback(ctx)
}
