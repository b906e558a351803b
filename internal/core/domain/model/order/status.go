package order

import (
	"fmt"

	"savannah/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	pending ──> processing ──> shipped ──> delivered
//	   │             │
//	   └─────────────┴──> cancelled
//
// delivered and cancelled are terminal. No transition skips a state or goes
// back to an earlier one.
type Status int

const (
	// Unknown is the zero value and never a valid status.
	Unknown Status = iota
	Pending
	Processing
	Shipped
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:    "pending",
	Processing: "processing",
	Shipped:    "shipped",
	Delivered:  "delivered",
	Cancelled:  "cancelled",
}

var transitions = map[Status][]Status{
	Pending:    {Processing, Cancelled},
	Processing: {Shipped, Cancelled},
	Shipped:    {Delivered},
	Delivered:  {},
	Cancelled:  {},
}

// AllStatuses lists the valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Processing, Shipped, Delivered, Cancelled}
}

// ParseStatus maps a lowercase status name to its Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase name used in storage and on the wire.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Successors returns the statuses reachable in one step.
func (s Status) Successors() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether next is an allowed successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanBeCancelled is true for pending and processing orders.
func (s Status) CanBeCancelled() bool {
	return s.CanTransitionTo(Cancelled)
}

// IsNotifiable reports whether entering s sends a status changed message.
func (s Status) IsNotifiable() bool {
	return s == Shipped || s == Delivered || s == Cancelled
}

// TransitionTo validates the move from s to next.
//
// A same status request is governed by policy: SameStatusReject fails with
// InvalidTransitionError, SameStatusIdempotent returns s unchanged and
// changed=false.
func (s Status) TransitionTo(next Status, policy SameStatusPolicy) (Status, bool, error) {
	if err := next.Validate(); err != nil {
		return s, false, err
	}
	if s == next && policy == SameStatusIdempotent {
		return s, false, nil
	}
	if !s.CanTransitionTo(next) {
		return s, false, errs.NewInvalidTransitionError(s.String(), next.String())
	}
	return next, true, nil
}

// MarshalText encodes the lowercase name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a lowercase name. "unknown" and the empty string
// decode to Unknown.
func (s *Status) UnmarshalText(text []byte) error {
	if len(text) == 0 || string(text) == "unknown" {
		*s = Unknown
		return nil
	}
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
