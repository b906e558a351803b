package queries

import (
	"errors"
	"fmt"
	"time"

	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"
	"savannah/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// RecentWindow is the look-back of RecentOrders.
const RecentWindow = 7 * 24 * time.Hour

var ErrGetOrderAnalyticsQueryIsNotConstructed = errors.New(
	"GetOrderAnalyticsQuery must be created via NewGetOrderAnalyticsQuery constructor",
)

// GetOrderAnalyticsQuery summarises orders created within an optional
// [start, end] window.
type GetOrderAnalyticsQuery struct {
	start *time.Time
	end   *time.Time

	guard guard.ConstructorGuard
}

func NewGetOrderAnalyticsQuery(start, end *time.Time) (GetOrderAnalyticsQuery, error) {
	if start != nil && end != nil && end.Before(*start) {
		return GetOrderAnalyticsQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"end_date",
			fmt.Errorf("%s is before start_date %s", end.Format(time.RFC3339), start.Format(time.RFC3339)),
		)
	}
	return GetOrderAnalyticsQuery{start: start, end: end, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderAnalyticsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderAnalyticsQueryIsNotConstructed)
}

func (q GetOrderAnalyticsQuery) Start() *time.Time {
	return q.start
}

func (q GetOrderAnalyticsQuery) End() *time.Time {
	return q.end
}

// GetOrderAnalyticsResponse sums amount, not amount times quantity.
// OrdersByStatus holds every status, zero when absent.
type GetOrderAnalyticsResponse struct {
	Start             *time.Time
	End               *time.Time
	TotalOrders       int64
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
	RecentOrders      int64
	OrdersByStatus    map[order.Status]int64
}
