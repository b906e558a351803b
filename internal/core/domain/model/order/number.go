package order

import (
	"fmt"
	"regexp"
	"time"

	"savannah/internal/pkg/errs"
)

const (
	numberPrefix = "ORD"
	numberLayout = "20060102"
	// NumberSpace is the number of distinct order numbers per day.
	NumberSpace = 10_000
)

var numberPattern = regexp.MustCompile(`^ORD\d{8}\d{4}$`)

// Number is the human facing order identifier: ORD, the creation date as
// YYYYMMDD and 4 digits.
type Number struct {
	value string
}

// NewNumber builds the number for day with suffix n (0 <= n < NumberSpace).
func NewNumber(day time.Time, n int) (Number, error) {
	if n < 0 || n >= NumberSpace {
		return Number{}, errs.NewValueIsOutOfRangeError("order_number", n, 0, NumberSpace-1)
	}
	return Number{value: fmt.Sprintf("%s%s%04d", numberPrefix, day.Format(numberLayout), n)}, nil
}

// ParseNumber validates a stored order number.
func ParseNumber(s string) (Number, error) {
	if !numberPattern.MatchString(s) {
		return Number{}, errs.NewValueIsInvalidErrorWithCause(
			"order_number",
			fmt.Errorf("%q is not ORD followed by a date and 4 digits", s),
		)
	}
	if _, err := time.Parse(numberLayout, s[len(numberPrefix):len(numberPrefix)+len(numberLayout)]); err != nil {
		return Number{}, errs.NewValueIsInvalidErrorWithCause("order_number", err)
	}
	return Number{value: s}, nil
}

func (n Number) String() string {
	return n.value
}

func (n Number) IsEmpty() bool {
	return n.value == ""
}
