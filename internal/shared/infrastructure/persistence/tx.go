package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// errNoTransaction is returned when Commit or Rollback runs on a context
// that never went through Begin.
var errNoTransaction = errors.New("no transaction in context")

type txKey struct{}

// TxInfo carries a pgx transaction through the context. Owned marks the
// unit of work that opened it; nested units join without owning.
type TxInfo struct {
	Tx    pgx.Tx
	Owned bool
}

// WithTx derives a context carrying the transaction.
func WithTx(ctx context.Context, tx pgx.Tx, owned bool) context.Context {
	return context.WithValue(ctx, txKey{}, TxInfo{Tx: tx, Owned: owned})
}

// TxInfoFromContext returns the transaction the context carries, if any.
func TxInfoFromContext(ctx context.Context) (TxInfo, bool) {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return TxInfo{}, false
	}
	return info, true
}

// DBExecutor is the query surface shared by pgxpool.Pool and pgx.Tx, so
// repositories run the same statements inside or outside a unit of work.
type DBExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Executor picks the context's transaction when one is open, otherwise
// the pool.
func Executor(ctx context.Context, pool *pgxpool.Pool) DBExecutor {
	if info, ok := TxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return pool
}
