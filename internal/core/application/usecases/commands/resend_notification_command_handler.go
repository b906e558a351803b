package commands

import (
	"context"

	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/ports"
)

// ResendNotificationCommandHandler checks that the order exists and enqueues a
// forced creation task. Unlike the fire-and-forget enqueue after a mutation,
// an enqueue failure is returned here because queuing is the whole operation.
type ResendNotificationCommandHandler struct {
	uowFactory OrderUoWFactory
	queue      ports.TaskQueue
	clock      ports.Clock
}

func NewResendNotificationCommandHandler(
	uowFactory OrderUoWFactory,
	queue ports.TaskQueue,
	clock ports.Clock,
) ResendNotificationCommandHandler {
	return ResendNotificationCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		clock:      clock,
	}
}

func (h ResendNotificationCommandHandler) Handle(ctx context.Context, cmd ResendNotificationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	task, err := notification.NewOrderCreatedTask(o.ID(), true, h.clock.Now())
	if err != nil {
		return err
	}

	return h.queue.Enqueue(ctx, task)
}
