package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetOrdersByCustomerQueryHandler struct {
	db *gorm.DB
}

func NewGetOrdersByCustomerQueryHandler(db *gorm.DB) GetOrdersByCustomerQueryHandler {
	return GetOrdersByCustomerQueryHandler{db: db}
}

func (h GetOrdersByCustomerQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersByCustomerQuery,
) (GetOrdersByCustomerResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrdersByCustomerResponse{}, err
	}

	id := query.CustomerID()
	orders, err := findOrders(ctx, h.db, "o.customer_id = ?", id.Bytes())
	if err != nil {
		return GetOrdersByCustomerResponse{}, err
	}

	totals, err := sumOrders(ctx, h.db, "customer_id = ?", id.Bytes())
	if err != nil {
		return GetOrdersByCustomerResponse{}, err
	}

	return GetOrdersByCustomerResponse{
		CustomerID:  id,
		Orders:      orders,
		TotalOrders: totals.Count,
		TotalSpent:  totals.Total,
	}, nil
}
