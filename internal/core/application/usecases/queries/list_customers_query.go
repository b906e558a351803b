package queries

import (
	"errors"

	"savannah/internal/pkg/guard"
)

var ErrListCustomersQueryIsNotConstructed = errors.New(
	"ListCustomersQuery must be created via NewListCustomersQuery constructor",
)

// ListCustomersQuery pages through customers, newest first.
type ListCustomersQuery struct {
	page Page

	guard guard.ConstructorGuard
}

func NewListCustomersQuery(offset, limit int) (ListCustomersQuery, error) {
	page, err := NewPage(offset, limit)
	if err != nil {
		return ListCustomersQuery{}, err
	}
	return ListCustomersQuery{page: page, guard: guard.NewConstructorGuard()}, nil
}

func (q ListCustomersQuery) Validate() error {
	return q.guard.Validate(ErrListCustomersQueryIsNotConstructed)
}

func (q ListCustomersQuery) Page() Page {
	return q.page
}

type ListCustomersResponse struct {
	Customers []CustomerResponse
	Total     int64
	Page      Page
}
