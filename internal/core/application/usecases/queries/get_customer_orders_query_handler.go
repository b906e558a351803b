package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetCustomerOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetCustomerOrdersQueryHandler(db *gorm.DB) GetCustomerOrdersQueryHandler {
	return GetCustomerOrdersQueryHandler{db: db}
}

func (h GetCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerOrdersQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	id := query.CustomerID()
	if _, err := findCustomer(ctx, h.db, "c.id = ?", id.Bytes(), id.String()); err != nil {
		return nil, err
	}
	return findOrders(ctx, h.db, "o.customer_id = ?", id.Bytes())
}

// findOrders loads the orders matching where, newest first.
func findOrders(ctx context.Context, db *gorm.DB, where string, args ...any) ([]OrderResponse, error) {
	var rows []orderRow
	err := db.WithContext(ctx).Raw(`
		SELECT`+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE `+where+`
		ORDER BY o.created_at DESC, o.id DESC
	`, args...).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return orderResponses(rows)
}
