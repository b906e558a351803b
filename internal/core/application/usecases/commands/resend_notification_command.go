package commands

import (
	"errors"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/guard"
)

var ErrResendNotificationCommandIsNotConstructed = errors.New(
	"ResendNotificationCommand must be created via NewResendNotificationCommand constructor",
)

// ResendNotificationCommand queues the creation message for an order again,
// whether or not it was delivered before.
type ResendNotificationCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewResendNotificationCommand(orderID kernel.UUID) (ResendNotificationCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ResendNotificationCommand{}, err
	}

	return ResendNotificationCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ResendNotificationCommand) Validate() error {
	return c.guard.Validate(ErrResendNotificationCommandIsNotConstructed)
}

func (c ResendNotificationCommand) OrderID() kernel.UUID {
	return c.orderID
}
