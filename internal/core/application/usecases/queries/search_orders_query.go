package queries

import (
	"errors"
	"strings"

	"savannah/internal/pkg/errs"
	"savannah/internal/pkg/guard"
)

var ErrSearchOrdersQueryIsNotConstructed = errors.New(
	"SearchOrdersQuery must be created via NewSearchOrdersQuery constructor",
)

// SearchOrdersQuery matches a case-insensitive substring of the item, order
// number, notes, or the customer's name or email.
type SearchOrdersQuery struct {
	term string

	guard guard.ConstructorGuard
}

func NewSearchOrdersQuery(term string) (SearchOrdersQuery, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return SearchOrdersQuery{}, errs.NewValueIsRequiredError("q")
	}
	return SearchOrdersQuery{term: term, guard: guard.NewConstructorGuard()}, nil
}

func (q SearchOrdersQuery) Validate() error {
	return q.guard.Validate(ErrSearchOrdersQueryIsNotConstructed)
}

func (q SearchOrdersQuery) Term() string {
	return q.term
}
