package ports

import (
	"context"

	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
)

// CustomerRepository defines the persistence contract for customer aggregates.
type CustomerRepository interface {
	// Add persists a new customer. A taken code or email surfaces as
	// errs.ConflictError naming the column.
	Add(ctx context.Context, aggregate *customer.Customer) error

	Update(ctx context.Context, aggregate *customer.Customer) error

	// Get returns errs.ObjectNotFoundError when no customer has the id.
	Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error)

	// Delete removes the customer and, through the foreign key, its orders.
	Delete(ctx context.Context, id kernel.UUID) error

	// EmailExists reports whether another customer already uses email.
	EmailExists(ctx context.Context, email string) (bool, error)
}
