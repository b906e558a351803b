package commands

import (
	"errors"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/guard"
)

var ErrNotifyOrderCreatedCommandIsNotConstructed = errors.New(
	"NotifyOrderCreatedCommand must be created via NewNotifyOrderCreatedCommand constructor",
)

// NotifyOrderCreatedCommand sends the creation message for an order. Unless
// force is set, orders already marked as notified are skipped.
type NotifyOrderCreatedCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	force   bool

	guard guard.ConstructorGuard
}

func NewNotifyOrderCreatedCommand(orderID kernel.UUID, force bool) (NotifyOrderCreatedCommand, error) {
	if err := orderID.Validate(); err != nil {
		return NotifyOrderCreatedCommand{}, err
	}

	return NotifyOrderCreatedCommand{
		orderID: orderID,
		force:   force,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c NotifyOrderCreatedCommand) Validate() error {
	return c.guard.Validate(ErrNotifyOrderCreatedCommandIsNotConstructed)
}

func (c NotifyOrderCreatedCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c NotifyOrderCreatedCommand) Force() bool {
	return c.force
}
