package commands

import (
	"errors"

	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/guard"
)

var ErrUpdateCustomerCommandIsNotConstructed = errors.New(
	"UpdateCustomerCommand must be created via NewUpdateCustomerCommand constructor",
)

// UpdateCustomerCommand applies a partial update. Only name and phone number
// may change.
type UpdateCustomerCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	patch      customer.Patch

	guard guard.ConstructorGuard
}

func NewUpdateCustomerCommand(customerID kernel.UUID, patch customer.Patch) (UpdateCustomerCommand, error) {
	cmd := UpdateCustomerCommand{
		patch: patch,
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setCustomerID(customerID); err != nil {
		return UpdateCustomerCommand{}, err
	}

	return cmd, nil
}

func (c UpdateCustomerCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCustomerCommandIsNotConstructed)
}

func (c UpdateCustomerCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c UpdateCustomerCommand) Patch() customer.Patch {
	return c.patch
}

func (c *UpdateCustomerCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}
