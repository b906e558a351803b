package customer

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/errs"
)

var (
	// ErrCustomerIsNotConstructed is returned by Validate for a Customer that
	// was not built by NewCustomer or RestoreCustomer.
	ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")
)

// Customer is the aggregate root of the customer registry.
type Customer struct {
	id        kernel.UUID
	code      Code
	name      string
	email     *string
	phone     kernel.PhoneNumber
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// Patch carries the fields a customer update may change. Nil fields are left
// untouched.
type Patch struct {
	Name        *string
	PhoneNumber *kernel.PhoneNumber
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.PhoneNumber == nil
}

// NewCustomer registers a customer. All validation failures are returned
// together.
func NewCustomer(
	id kernel.UUID,
	code Code,
	name string,
	email *string,
	phone kernel.PhoneNumber,
	now time.Time,
) (*Customer, error) {
	c := &Customer{
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setCode(code),
		c.setName(name),
		c.setEmail(email),
		c.setPhone(phone),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCustomer rebuilds a persisted customer.
func RestoreCustomer(
	id kernel.UUID,
	code Code,
	name string,
	email *string,
	phone kernel.PhoneNumber,
	createdAt, updatedAt time.Time,
) (*Customer, error) {
	c, err := NewCustomer(id, code, name, email, phone, createdAt)
	if err != nil {
		return nil, err
	}
	c.updatedAt = updatedAt
	return c, nil
}

func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

func (c *Customer) IsEqual(other *Customer) bool {
	return other != nil && c.id.IsEqual(other.id)
}

func (c *Customer) ID() kernel.UUID {
	return c.id
}

func (c *Customer) Code() Code {
	return c.code
}

func (c *Customer) Name() string {
	return c.name
}

func (c *Customer) PhoneNumber() kernel.PhoneNumber {
	return c.phone
}

func (c *Customer) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Customer) UpdatedAt() time.Time {
	return c.updatedAt
}

// Email returns the optional email address.
func (c *Customer) Email() *string {
	if c.email == nil {
		return nil
	}
	email := *c.email
	return &email
}

// Update applies the present fields of patch. Nothing changes when any field
// is invalid.
func (c *Customer) Update(patch Patch, now time.Time) error {
	next := *c
	var errName, errPhone error
	if patch.Name != nil {
		errName = next.setName(*patch.Name)
	}
	if patch.PhoneNumber != nil {
		errPhone = next.setPhone(*patch.PhoneNumber)
	}
	if err := errors.Join(errName, errPhone); err != nil {
		return err
	}

	if !patch.IsEmpty() {
		next.updatedAt = now
	}
	*c = next
	return nil
}

func (c *Customer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Customer) setCode(code Code) error {
	if code.IsEmpty() {
		return errs.NewValueIsRequiredError("code")
	}
	c.code = code
	return nil
}

func (c *Customer) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *Customer) setEmail(email *string) error {
	if email == nil || strings.TrimSpace(*email) == "" {
		c.email = nil
		return nil
	}
	value := strings.TrimSpace(*email)
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not a valid email address", value))
	}
	// Addresses are unique regardless of case.
	value = strings.ToLower(value)
	c.email = &value
	return nil
}

func (c *Customer) setPhone(phone kernel.PhoneNumber) error {
	if phone.IsEmpty() {
		return errs.NewValueIsRequiredError("phone_number")
	}
	c.phone = phone
	return nil
}
