package ports

import (
	"context"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. A taken order number surfaces as
	// errs.ConflictError naming "order_number".
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate reads like Get and locks the order until the surrounding
	// transaction ends. Handlers that change an order read it this way so
	// that concurrent changes apply one after another.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	Delete(ctx context.Context, id kernel.UUID) error

	// GetUnnotified returns orders whose creation message has not been
	// delivered, created within [from, to], excluding cancelled orders,
	// oldest first.
	GetUnnotified(ctx context.Context, from, to time.Time, limit int) ([]*order.Order, error)
}
