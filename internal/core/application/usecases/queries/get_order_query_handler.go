package queries

import (
	"context"

	"savannah/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when no order has the id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderResponse{}, err
	}

	id := query.OrderID()
	orders, err := findOrders(ctx, h.db, "o.id = ?", id.Bytes())
	if err != nil {
		return GetOrderResponse{}, err
	}
	if len(orders) == 0 {
		return GetOrderResponse{}, errs.NewObjectNotFoundError("order", id.String())
	}
	o := orders[0]

	c, err := findCustomer(ctx, h.db, "c.id = ?", o.CustomerID.Bytes(), o.CustomerID.String())
	if err != nil {
		return GetOrderResponse{}, err
	}

	return GetOrderResponse{
		OrderResponse:  o,
		Customer:       c,
		CanBeCancelled: o.Status.CanBeCancelled(),
	}, nil
}
