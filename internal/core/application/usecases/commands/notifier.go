package commands

import (
	"context"
	"log/slog"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/ports"
)

// notifier enqueues notification tasks after a mutation has committed.
// Enqueue failures are logged and never returned: the mutation already
// succeeded and the retry job picks up unsent creation messages.
type notifier struct {
	queue  ports.TaskQueue
	clock  ports.Clock
	logger *slog.Logger
}

func (n notifier) orderCreated(ctx context.Context, orderID kernel.UUID, force bool) {
	task, err := notification.NewOrderCreatedTask(orderID, force, n.clock.Now())
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to build notification task", "order_id", orderID.String(), "error", err)
		return
	}
	n.enqueue(ctx, task)
}

func (n notifier) statusChanged(ctx context.Context, orderID kernel.UUID, oldStatus, newStatus order.Status) {
	if !newStatus.IsNotifiable() {
		return
	}
	task, err := notification.NewOrderStatusChangedTask(orderID, oldStatus, newStatus, n.clock.Now())
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to build notification task", "order_id", orderID.String(), "error", err)
		return
	}
	n.enqueue(ctx, task)
}

func (n notifier) enqueue(ctx context.Context, task notification.Task) {
	if err := n.queue.Enqueue(ctx, task); err != nil {
		n.logger.ErrorContext(ctx, "failed to enqueue notification",
			"task_id", task.ID.String(), "kind", string(task.Kind), "order_id", task.OrderID.String(), "error", err)
		return
	}
	n.logger.DebugContext(ctx, "notification enqueued",
		"task_id", task.ID.String(), "kind", string(task.Kind), "order_id", task.OrderID.String())
}
