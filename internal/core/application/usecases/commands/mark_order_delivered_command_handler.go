package commands

import (
	"context"
	"log/slog"

	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/ports"
)

// MarkOrderDeliveredCommandHandler delivers shipped orders. For any other
// status it reports false without writing anything; only a missing order or
// an infrastructure failure is an error.
type MarkOrderDeliveredCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewMarkOrderDeliveredCommandHandler(
	uowFactory OrderUoWFactory,
	queue ports.TaskQueue,
	clock ports.Clock,
	logger *slog.Logger,
) MarkOrderDeliveredCommandHandler {
	logger = logger.With("component", "mark_order_delivered_handler")
	return MarkOrderDeliveredCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier{queue: queue, clock: clock, logger: logger},
		clock:      clock,
		logger:     logger,
	}
}

func (h MarkOrderDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkOrderDeliveredCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	delivered, err := h.deliver(ctx, cmd)
	if err != nil || !delivered {
		return false, err
	}

	h.logger.InfoContext(ctx, "order delivered", "order_id", cmd.OrderID().String())
	h.notifier.statusChanged(ctx, cmd.OrderID(), order.Shipped, order.Delivered)
	return true, nil
}

func (h MarkOrderDeliveredCommandHandler) deliver(ctx context.Context, cmd MarkOrderDeliveredCommand) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return false, err
	}

	if !o.MarkDelivered(h.clock.Now()) {
		return false, nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}
