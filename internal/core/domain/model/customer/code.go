package customer

import (
	"fmt"
	"regexp"

	"savannah/internal/pkg/errs"
)

const (
	codePrefix = "CUST"
	codeDigits = 6
	// CodeSpace is the number of distinct codes.
	CodeSpace = 1_000_000
)

var codePattern = regexp.MustCompile(`^CUST\d{6}$`)

// Code is the human facing customer identifier.
type Code struct {
	value string
}

// NewCode formats n (0 <= n < CodeSpace) as a zero padded customer code.
func NewCode(n int) (Code, error) {
	if n < 0 || n >= CodeSpace {
		return Code{}, errs.NewValueIsOutOfRangeError("code", n, 0, CodeSpace-1)
	}
	return Code{value: fmt.Sprintf("%s%0*d", codePrefix, codeDigits, n)}, nil
}

// ParseCode validates a stored or user supplied code.
func ParseCode(s string) (Code, error) {
	if !codePattern.MatchString(s) {
		return Code{}, errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q is not CUST followed by 6 digits", s))
	}
	return Code{value: s}, nil
}

func (c Code) String() string {
	return c.value
}

func (c Code) IsEmpty() bool {
	return c.value == ""
}
