package queries

import (
	"errors"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrdersByCustomerQueryIsNotConstructed = errors.New(
	"GetOrdersByCustomerQuery must be created via NewGetOrdersByCustomerQuery constructor",
)

// GetOrdersByCustomerQuery groups the orders of one customer. An unknown
// customer yields an empty group.
type GetOrdersByCustomerQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrdersByCustomerQuery(customerID kernel.UUID) (GetOrdersByCustomerQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetOrdersByCustomerQuery{}, err
	}
	return GetOrdersByCustomerQuery{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrdersByCustomerQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByCustomerQueryIsNotConstructed)
}

func (q GetOrdersByCustomerQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// GetOrdersByCustomerResponse carries TotalSpent as the sum of amount,
// ignoring quantity.
type GetOrdersByCustomerResponse struct {
	CustomerID  kernel.UUID
	Orders      []OrderResponse
	TotalOrders int64
	TotalSpent  decimal.Decimal
}
