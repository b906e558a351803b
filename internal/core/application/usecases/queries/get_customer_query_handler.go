package queries

import (
	"context"

	"savannah/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetCustomerQueryHandler struct {
	db *gorm.DB
}

func NewGetCustomerQueryHandler(db *gorm.DB) GetCustomerQueryHandler {
	return GetCustomerQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when no customer has the id.
func (h GetCustomerQueryHandler) Handle(ctx context.Context, query GetCustomerQuery) (CustomerResponse, error) {
	if err := query.Validate(); err != nil {
		return CustomerResponse{}, err
	}
	return findCustomer(ctx, h.db, "c.id = ?", query.CustomerID().Bytes(), query.CustomerID().String())
}

// findCustomer loads one customer matching where. ref names it in the
// not found error.
func findCustomer(ctx context.Context, db *gorm.DB, where string, arg any, ref string) (CustomerResponse, error) {
	var rows []customerRow
	err := db.WithContext(ctx).Raw(`
		SELECT`+customerColumns+`
		FROM customers c
		WHERE `+where+`
		LIMIT 1
	`, arg).Scan(&rows).Error
	if err != nil {
		return CustomerResponse{}, err
	}
	if len(rows) == 0 {
		return CustomerResponse{}, errs.NewObjectNotFoundError("customer", ref)
	}
	return rows[0].toResponse()
}
