package order

import (
	"fmt"

	"savannah/internal/pkg/errs"
)

// SameStatusPolicy decides how a status update to the current status is
// treated.
type SameStatusPolicy int

const (
	// SameStatusReject treats the request as an invalid transition.
	SameStatusReject SameStatusPolicy = iota
	// SameStatusIdempotent accepts the request without changing the order.
	SameStatusIdempotent
)

// ParseSameStatusPolicy accepts "reject" and "idempotent". The empty string
// selects SameStatusReject.
func ParseSameStatusPolicy(s string) (SameStatusPolicy, error) {
	switch s {
	case "", "reject":
		return SameStatusReject, nil
	case "idempotent":
		return SameStatusIdempotent, nil
	default:
		return SameStatusReject, errs.NewValueIsInvalidErrorWithCause(
			"same status policy",
			fmt.Errorf("%q is neither reject nor idempotent", s),
		)
	}
}

func (p SameStatusPolicy) String() string {
	if p == SameStatusIdempotent {
		return "idempotent"
	}
	return "reject"
}
