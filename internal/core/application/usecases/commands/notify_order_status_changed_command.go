package commands

import (
	"errors"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"
	"savannah/internal/pkg/guard"
)

var ErrNotifyOrderStatusChangedCommandIsNotConstructed = errors.New(
	"NotifyOrderStatusChangedCommand must be created via NewNotifyOrderStatusChangedCommand constructor",
)

type NotifyOrderStatusChangedCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	oldStatus order.Status
	newStatus order.Status

	guard guard.ConstructorGuard
}

// NewNotifyOrderStatusChangedCommand accepts only statuses that have a
// message: shipped, delivered and cancelled.
func NewNotifyOrderStatusChangedCommand(
	orderID kernel.UUID,
	oldStatus, newStatus order.Status,
) (NotifyOrderStatusChangedCommand, error) {
	var errStatus error
	if !newStatus.IsNotifiable() {
		errStatus = errs.NewValueIsInvalidError("new_status")
	}
	if err := errors.Join(orderID.Validate(), errStatus); err != nil {
		return NotifyOrderStatusChangedCommand{}, err
	}

	return NotifyOrderStatusChangedCommand{
		orderID:   orderID,
		oldStatus: oldStatus,
		newStatus: newStatus,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c NotifyOrderStatusChangedCommand) Validate() error {
	return c.guard.Validate(ErrNotifyOrderStatusChangedCommandIsNotConstructed)
}

func (c NotifyOrderStatusChangedCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c NotifyOrderStatusChangedCommand) OldStatus() order.Status {
	return c.oldStatus
}

func (c NotifyOrderStatusChangedCommand) NewStatus() order.Status {
	return c.newStatus
}
