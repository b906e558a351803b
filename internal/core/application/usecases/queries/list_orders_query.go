package queries

import (
	"errors"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through orders, newest first, optionally filtered by
// status and customer.
type ListOrdersQuery struct {
	page       Page
	status     *order.Status
	customerID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(
	offset, limit int,
	status *order.Status,
	customerID *kernel.UUID,
) (ListOrdersQuery, error) {
	page, err := NewPage(offset, limit)
	if err != nil {
		return ListOrdersQuery{}, err
	}
	if status != nil {
		if err = status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	if customerID != nil {
		if err = customerID.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}

	return ListOrdersQuery{
		page:       page,
		status:     status,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Page() Page {
	return q.page
}

func (q ListOrdersQuery) Status() *order.Status {
	return q.status
}

func (q ListOrdersQuery) CustomerID() *kernel.UUID {
	return q.customerID
}

type ListOrdersResponse struct {
	Orders []OrderResponse
	Total  int64
	Page   Page
}
