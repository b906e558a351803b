package queries

import (
	"context"

	"gorm.io/gorm"
)

type SearchOrdersQueryHandler struct {
	db *gorm.DB
}

func NewSearchOrdersQueryHandler(db *gorm.DB) SearchOrdersQueryHandler {
	return SearchOrdersQueryHandler{db: db}
}

func (h SearchOrdersQueryHandler) Handle(ctx context.Context, query SearchOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return findOrders(ctx, h.db, `
			o.item ILIKE @p
			OR o.order_number ILIKE @p
			OR o.notes ILIKE @p
			OR c.name ILIKE @p
			OR c.email ILIKE @p`,
		map[string]any{"p": containsPattern(query.Term())},
	)
}
