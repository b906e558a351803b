package queries

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetCustomerStatsQueryHandler struct {
	db *gorm.DB
}

func NewGetCustomerStatsQueryHandler(db *gorm.DB) GetCustomerStatsQueryHandler {
	return GetCustomerStatsQueryHandler{db: db}
}

func (h GetCustomerStatsQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerStatsQuery,
) (GetCustomerStatsResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCustomerStatsResponse{}, err
	}

	id := query.CustomerID()
	c, err := findCustomer(ctx, h.db, "c.id = ?", id.Bytes(), id.String())
	if err != nil {
		return GetCustomerStatsResponse{}, err
	}

	totals, err := sumOrders(ctx, h.db, "customer_id = ?", id.Bytes())
	if err != nil {
		return GetCustomerStatsResponse{}, err
	}

	return GetCustomerStatsResponse{
		Customer:          c,
		TotalOrders:       totals.Count,
		TotalSpent:        totals.Total,
		AverageOrderValue: averageOf(totals.Total, totals.Count),
	}, nil
}

type orderTotals struct {
	Count int64
	Total decimal.Decimal
}

// sumOrders counts the orders matching where and sums their amount.
func sumOrders(ctx context.Context, db *gorm.DB, where string, args ...any) (orderTotals, error) {
	var totals orderTotals
	err := db.WithContext(ctx).
		Table("orders").
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where(where, args...).
		Scan(&totals).Error
	return totals, err
}
