package commands

import (
	"context"
	"log/slog"

	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/ports"
)

// UpdateOrderStatusCommandHandler moves an order along the status graph.
// A request for the current status is rejected or accepted as a no-op
// depending on the configured SameStatusPolicy. Entering shipped, delivered
// or cancelled enqueues a status notification.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     order.SameStatusPolicy
	notifier   notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	policy order.SameStatusPolicy,
	queue ports.TaskQueue,
	clock ports.Clock,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	logger = logger.With("component", "update_order_status_handler")
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		notifier:   notifier{queue: queue, clock: clock, logger: logger},
		clock:      clock,
		logger:     logger,
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, oldStatus, changed, err := h.apply(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}

	h.logger.InfoContext(ctx, "order status updated",
		"order_id", o.ID().String(), "from", oldStatus.String(), "to", o.Status().String())
	h.notifier.statusChanged(ctx, o.ID(), oldStatus, o.Status())
	return o, nil
}

func (h UpdateOrderStatusCommandHandler) apply(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, order.Status, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, order.Unknown, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, order.Unknown, false, err
	}

	oldStatus := o.Status()
	changed, err := o.UpdateStatus(cmd.Status(), h.policy, h.clock.Now())
	if err != nil {
		return nil, order.Unknown, false, err
	}
	if !changed {
		return o, oldStatus, false, nil
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, order.Unknown, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, order.Unknown, false, err
	}

	return o, oldStatus, true, nil
}
