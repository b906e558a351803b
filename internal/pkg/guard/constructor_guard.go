// Package guard provides ConstructorGuard, a marker that lets value objects,
// aggregates, commands and queries tell a constructed instance from a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero guard when the
// caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded as an unexported field and set only by the
// owning type's constructor:
//
//	type RegisterCustomerCommand struct {
//	    name  string
//	    guard guard.ConstructorGuard
//	}
//
//	func (c RegisterCustomerCommand) Validate() error {
//	    return c.guard.Validate(ErrRegisterCustomerCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard and validationError otherwise.
// A nil validationError falls back to ErrDefaultConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
