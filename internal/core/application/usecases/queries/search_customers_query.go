package queries

import (
	"errors"
	"strings"

	"savannah/internal/pkg/errs"
	"savannah/internal/pkg/guard"
)

var ErrSearchCustomersQueryIsNotConstructed = errors.New(
	"SearchCustomersQuery must be created via NewSearchCustomersQuery constructor",
)

// SearchCustomersQuery matches a case-insensitive substring of name, email,
// code or phone number.
type SearchCustomersQuery struct {
	term string

	guard guard.ConstructorGuard
}

func NewSearchCustomersQuery(term string) (SearchCustomersQuery, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return SearchCustomersQuery{}, errs.NewValueIsRequiredError("q")
	}
	return SearchCustomersQuery{term: term, guard: guard.NewConstructorGuard()}, nil
}

func (q SearchCustomersQuery) Validate() error {
	return q.guard.Validate(ErrSearchCustomersQueryIsNotConstructed)
}

func (q SearchCustomersQuery) Term() string {
	return q.term
}
