package queries

import (
	"context"

	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/ports"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderAnalyticsQueryHandler struct {
	db    *gorm.DB
	clock ports.Clock
}

func NewGetOrderAnalyticsQueryHandler(db *gorm.DB, clock ports.Clock) GetOrderAnalyticsQueryHandler {
	return GetOrderAnalyticsQueryHandler{db: db, clock: clock}
}

// Handle counts RecentOrders within the window as well, over the last
// RecentWindow before now.
func (h GetOrderAnalyticsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderAnalyticsQuery,
) (GetOrderAnalyticsResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderAnalyticsResponse{}, err
	}

	window := func(db *gorm.DB) *gorm.DB {
		if start := query.Start(); start != nil {
			db = db.Where("created_at >= ?", *start)
		}
		if end := query.End(); end != nil {
			db = db.Where("created_at <= ?", *end)
		}
		return db
	}

	var summary struct {
		TotalOrders  int64
		TotalRevenue decimal.Decimal
		RecentOrders int64
	}
	err := h.db.WithContext(ctx).
		Table("orders").
		Scopes(window).
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(amount), 0) AS total_revenue,
			COUNT(*) FILTER (WHERE created_at >= ?) AS recent_orders`,
			h.clock.Now().Add(-RecentWindow)).
		Scan(&summary).Error
	if err != nil {
		return GetOrderAnalyticsResponse{}, err
	}

	var counts []struct {
		Status string
		Count  int64
	}
	err = h.db.WithContext(ctx).
		Table("orders").
		Scopes(window).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return GetOrderAnalyticsResponse{}, err
	}

	byStatus := make(map[order.Status]int64, len(order.AllStatuses()))
	for _, s := range order.AllStatuses() {
		byStatus[s] = 0
	}
	for _, c := range counts {
		s, err := order.ParseStatus(c.Status)
		if err != nil {
			return GetOrderAnalyticsResponse{}, err
		}
		byStatus[s] = c.Count
	}

	return GetOrderAnalyticsResponse{
		Start:             query.Start(),
		End:               query.End(),
		TotalOrders:       summary.TotalOrders,
		TotalRevenue:      summary.TotalRevenue,
		AverageOrderValue: averageOf(summary.TotalRevenue, summary.TotalOrders),
		RecentOrders:      summary.RecentOrders,
		OrdersByStatus:    byStatus,
	}, nil
}
