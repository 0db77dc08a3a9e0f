// Package application holds application-layer building blocks shared by
// the bounded contexts.
package application

import "context"

// UnitOfWork scopes a group of repository calls to a single transaction.
// Begin returns a derived context carrying the transaction; repositories
// over the same store pick it up from there, so the caller never handles
// the transaction directly.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// WithUnitOfWork runs fn inside one unit of work: committed when fn
// returns nil, rolled back otherwise. The rollback error is dropped in
// favor of fn's error.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) error) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}

	return uow.Commit(txCtx)
}
