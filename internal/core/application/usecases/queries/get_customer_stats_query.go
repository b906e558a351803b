package queries

import (
	"errors"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetCustomerStatsQueryIsNotConstructed = errors.New(
	"GetCustomerStatsQuery must be created via NewGetCustomerStatsQuery constructor",
)

type GetCustomerStatsQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCustomerStatsQuery(customerID kernel.UUID) (GetCustomerStatsQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCustomerStatsQuery{}, err
	}
	return GetCustomerStatsQuery{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCustomerStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerStatsQueryIsNotConstructed)
}

func (q GetCustomerStatsQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// GetCustomerStatsResponse sums order amounts; quantity is not factored in.
type GetCustomerStatsResponse struct {
	Customer          CustomerResponse
	TotalOrders       int64
	TotalSpent        decimal.Decimal
	AverageOrderValue decimal.Decimal
}
