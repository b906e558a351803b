package commands

import (
	"context"
	"log/slog"

	"savannah/internal/core/ports"
)

// RetryUnnotifiedOrdersCommandHandler re-enqueues creation tasks for orders
// whose message was never delivered. The tasks are not forced, so an order
// notified in the meantime is skipped by the worker.
type RetryUnnotifiedOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   notifier
	clock      ports.Clock
}

func NewRetryUnnotifiedOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	queue ports.TaskQueue,
	clock ports.Clock,
	logger *slog.Logger,
) RetryUnnotifiedOrdersCommandHandler {
	return RetryUnnotifiedOrdersCommandHandler{
		uowFactory: uowFactory,
		notifier: notifier{
			queue:  queue,
			clock:  clock,
			logger: logger.With("component", "retry_unnotified_orders_handler"),
		},
		clock: clock,
	}
}

// Handle returns the number of orders that were re-enqueued.
func (h RetryUnnotifiedOrdersCommandHandler) Handle(ctx context.Context, cmd RetryUnnotifiedOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	orders, err := uow.OrderRepository().GetUnnotified(ctx, now.Add(-cmd.MaxAge()), now.Add(-cmd.MinAge()), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	for _, o := range orders {
		h.notifier.orderCreated(ctx, o.ID(), false)
	}

	return len(orders), nil
}
