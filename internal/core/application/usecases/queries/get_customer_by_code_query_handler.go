package queries

import (
	"context"

	"gorm.io/gorm"
)

type GetCustomerByCodeQueryHandler struct {
	db *gorm.DB
}

func NewGetCustomerByCodeQueryHandler(db *gorm.DB) GetCustomerByCodeQueryHandler {
	return GetCustomerByCodeQueryHandler{db: db}
}

func (h GetCustomerByCodeQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerByCodeQuery,
) (CustomerResponse, error) {
	if err := query.Validate(); err != nil {
		return CustomerResponse{}, err
	}
	code := query.Code().String()
	return findCustomer(ctx, h.db, "c.code = ?", code, code)
}
