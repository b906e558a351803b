package queries

import (
	"savannah/internal/pkg/errs"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is an offset window over a listing. A zero limit selects DefaultLimit.
type Page struct {
	Offset int
	Limit  int
}

func NewPage(offset, limit int) (Page, error) {
	if offset < 0 {
		return Page{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return Page{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxLimit)
	}
	return Page{Offset: offset, Limit: limit}, nil
}
