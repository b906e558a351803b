package commands

import (
	"errors"
	"strings"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"
	"savannah/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrAmountIsInvalid   = errors.New("amount must be a positive value with at most 2 decimal places")
	ErrQuantityIsInvalid = errors.New("quantity must be greater than 0")
)

// DefaultQuantity applies when an order request omits the quantity.
const DefaultQuantity = 1

// CreateOrderCommand represents a request to place an order for an existing
// customer.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(customerID, "Laptop", decimal.RequireFromString("999.99"), 1, "")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	item       string
	amount     decimal.Decimal
	quantity   int
	notes      string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order data. Amount and quantity errors
// match ErrAmountIsInvalid and ErrQuantityIsInvalid.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	item string,
	amount decimal.Decimal,
	quantity int,
	notes string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		notes: strings.TrimSpace(notes),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setItem(item),
		cmd.setAmount(amount),
		cmd.setQuantity(quantity),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) Item() string {
	return c.item
}

func (c CreateOrderCommand) Amount() decimal.Decimal {
	return c.amount
}

func (c CreateOrderCommand) Quantity() int {
	return c.quantity
}

func (c CreateOrderCommand) Notes() string {
	return c.notes
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer_id", err)
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItem(item string) error {
	item = strings.TrimSpace(item)
	if item == "" {
		return errs.NewValueIsRequiredError("item")
	}

	c.item = item
	return nil
}

func (c *CreateOrderCommand) setAmount(amount decimal.Decimal) error {
	if err := order.ValidateAmount(amount); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("amount", errors.Join(ErrAmountIsInvalid, err))
	}

	c.amount = amount
	return nil
}

func (c *CreateOrderCommand) setQuantity(quantity int) error {
	if err := order.ValidateQuantity(quantity); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("quantity", errors.Join(ErrQuantityIsInvalid, err))
	}

	c.quantity = quantity
	return nil
}
