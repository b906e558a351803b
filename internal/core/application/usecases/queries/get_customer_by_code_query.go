package queries

import (
	"errors"
	"strings"

	"savannah/internal/core/domain/model/customer"
	"savannah/internal/pkg/guard"
)

var ErrGetCustomerByCodeQueryIsNotConstructed = errors.New(
	"GetCustomerByCodeQuery must be created via NewGetCustomerByCodeQuery constructor",
)

type GetCustomerByCodeQuery struct {
	code customer.Code

	guard guard.ConstructorGuard
}

// NewGetCustomerByCodeQuery accepts the code in any letter case.
func NewGetCustomerByCodeQuery(code string) (GetCustomerByCodeQuery, error) {
	parsed, err := customer.ParseCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return GetCustomerByCodeQuery{}, err
	}
	return GetCustomerByCodeQuery{code: parsed, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCustomerByCodeQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerByCodeQueryIsNotConstructed)
}

func (q GetCustomerByCodeQuery) Code() customer.Code {
	return q.code
}
