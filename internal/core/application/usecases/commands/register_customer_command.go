package commands

import (
	"errors"
	"strings"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/errs"
	"savannah/internal/pkg/guard"
)

var (
	ErrRegisterCustomerCommandIsNotConstructed = errors.New(
		"RegisterCustomerCommand must be created via NewRegisterCustomerCommand constructor",
	)
	ErrDuplicateEmail = errors.New("email is already registered")
)

// RegisterCustomerCommand requests a new customer record. The customer code is
// generated by the handler.
//
// Example:
//
//	phone, _ := kernel.ParsePhoneNumber("0712345678", kernel.DefaultCountryCode)
//	cmd, err := NewRegisterCustomerCommand("John Doe", phone, &email)
type RegisterCustomerCommand struct { //nolint:recvcheck //using for validation
	name  string
	phone kernel.PhoneNumber
	email *string

	guard guard.ConstructorGuard
}

// NewRegisterCustomerCommand validates the registration data. A blank email is
// treated as absent.
func NewRegisterCustomerCommand(name string, phone kernel.PhoneNumber, email *string) (RegisterCustomerCommand, error) {
	cmd := RegisterCustomerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setName(name),
		cmd.setPhone(phone),
	); err != nil {
		return RegisterCustomerCommand{}, err
	}
	cmd.setEmail(email)

	return cmd, nil
}

func (c RegisterCustomerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCustomerCommandIsNotConstructed)
}

func (c RegisterCustomerCommand) Name() string {
	return c.name
}

func (c RegisterCustomerCommand) PhoneNumber() kernel.PhoneNumber {
	return c.phone
}

// Email returns nil when no email was given.
func (c RegisterCustomerCommand) Email() *string {
	if c.email == nil {
		return nil
	}
	email := *c.email
	return &email
}

func (c *RegisterCustomerCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	c.name = name
	return nil
}

func (c *RegisterCustomerCommand) setPhone(phone kernel.PhoneNumber) error {
	if phone.IsEmpty() {
		return errs.NewValueIsRequiredError("phone_number")
	}

	c.phone = phone
	return nil
}

func (c *RegisterCustomerCommand) setEmail(email *string) {
	if email == nil || strings.TrimSpace(*email) == "" {
		return
	}

	trimmed := strings.TrimSpace(*email)
	c.email = &trimmed
}
