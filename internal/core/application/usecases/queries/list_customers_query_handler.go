package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListCustomersQueryHandler struct {
	db *gorm.DB
}

func NewListCustomersQueryHandler(db *gorm.DB) ListCustomersQueryHandler {
	return ListCustomersQueryHandler{db: db}
}

// Handle orders by creation time descending with the id as tie breaker, so
// pages are stable.
func (h ListCustomersQueryHandler) Handle(
	ctx context.Context,
	query ListCustomersQuery,
) (ListCustomersResponse, error) {
	if err := query.Validate(); err != nil {
		return ListCustomersResponse{}, err
	}
	page := query.Page()
	db := h.db.WithContext(ctx)

	var total int64
	if err := db.Raw(`SELECT COUNT(*) FROM customers`).Scan(&total).Error; err != nil {
		return ListCustomersResponse{}, err
	}

	var rows []customerRow
	err := db.Raw(`
		SELECT`+customerColumns+`
		FROM customers c
		ORDER BY c.created_at DESC, c.id DESC
		OFFSET ? LIMIT ?
	`, page.Offset, page.Limit).Scan(&rows).Error
	if err != nil {
		return ListCustomersResponse{}, err
	}

	customers, err := customerResponses(rows)
	if err != nil {
		return ListCustomersResponse{}, err
	}
	return ListCustomersResponse{Customers: customers, Total: total, Page: page}, nil
}
