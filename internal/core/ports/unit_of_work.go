package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary. Callers manage Begin, Commit and
// Rollback explicitly; repositories obtained from it join the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error when no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error when no transaction is active.
	Rollback(ctx context.Context) error

	CustomerRepository() CustomerRepository

	OrderRepository() OrderRepository
}
