package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersResponse{}, err
	}
	page := query.Page()

	filter := func(db *gorm.DB) *gorm.DB {
		if s := query.Status(); s != nil {
			db = db.Where("o.status = ?", s.String())
		}
		if id := query.CustomerID(); id != nil {
			db = db.Where("o.customer_id = ?", id.Bytes())
		}
		return db
	}

	var total int64
	err := h.db.WithContext(ctx).
		Table("orders o").
		Scopes(filter).
		Count(&total).Error
	if err != nil {
		return ListOrdersResponse{}, err
	}

	var rows []orderRow
	err = h.db.WithContext(ctx).
		Table("orders o").
		Select(orderColumns).
		Joins("JOIN customers c ON c.id = o.customer_id").
		Scopes(filter).
		Order("o.created_at DESC, o.id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Scan(&rows).Error
	if err != nil {
		return ListOrdersResponse{}, err
	}

	orders, err := orderResponses(rows)
	if err != nil {
		return ListOrdersResponse{}, err
	}
	return ListOrdersResponse{Orders: orders, Total: total, Page: page}, nil
}
