package commands

import (
	"errors"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"
	"savannah/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderCommand changes order details: item, amount, quantity and notes.
// Status changes go through UpdateOrderStatusCommand.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	patch   order.Patch

	guard guard.ConstructorGuard
}

func NewUpdateOrderCommand(orderID kernel.UUID, patch order.Patch) (UpdateOrderCommand, error) {
	cmd := UpdateOrderCommand{
		patch: patch,
		guard: guard.NewConstructorGuard(),
	}

	var errAmount, errQuantity error
	if patch.Amount != nil {
		if err := order.ValidateAmount(*patch.Amount); err != nil {
			errAmount = errs.NewValueIsInvalidErrorWithCause("amount", errors.Join(ErrAmountIsInvalid, err))
		}
	}
	if patch.Quantity != nil {
		if err := order.ValidateQuantity(*patch.Quantity); err != nil {
			errQuantity = errs.NewValueIsInvalidErrorWithCause("quantity", errors.Join(ErrQuantityIsInvalid, err))
		}
	}

	if err := errors.Join(orderID.Validate(), errAmount, errQuantity); err != nil {
		return UpdateOrderCommand{}, err
	}
	cmd.orderID = orderID

	return cmd, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderCommand) Patch() order.Patch {
	return c.patch
}
