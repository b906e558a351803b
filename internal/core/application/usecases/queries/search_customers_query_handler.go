package queries

import (
	"context"

	"gorm.io/gorm"
)

type SearchCustomersQueryHandler struct {
	db *gorm.DB
}

func NewSearchCustomersQueryHandler(db *gorm.DB) SearchCustomersQueryHandler {
	return SearchCustomersQueryHandler{db: db}
}

func (h SearchCustomersQueryHandler) Handle(
	ctx context.Context,
	query SearchCustomersQuery,
) ([]CustomerResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pattern := containsPattern(query.Term())
	var rows []customerRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT`+customerColumns+`
		FROM customers c
		WHERE c.name ILIKE @p
			OR c.email ILIKE @p
			OR c.code ILIKE @p
			OR c.phone_number ILIKE @p
		ORDER BY c.created_at DESC, c.id DESC
	`, map[string]any{"p": pattern}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return customerResponses(rows)
}
