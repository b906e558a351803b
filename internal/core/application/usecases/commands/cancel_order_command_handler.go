package commands

import (
	"context"
	"log/slog"

	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/ports"
)

// CancelOrderCommandHandler cancels pending and processing orders. Any other
// status yields errs.CannotCancelError and leaves the order untouched.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	queue ports.TaskQueue,
	clock ports.Clock,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	logger = logger.With("component", "cancel_order_handler")
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier{queue: queue, clock: clock, logger: logger},
		clock:      clock,
		logger:     logger,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, oldStatus, err := h.cancel(ctx, cmd)
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order cancelled", "order_id", o.ID().String(), "from", oldStatus.String())
	h.notifier.statusChanged(ctx, o.ID(), oldStatus, order.Cancelled)
	return o, nil
}

func (h CancelOrderCommandHandler) cancel(ctx context.Context, cmd CancelOrderCommand) (*order.Order, order.Status, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, order.Unknown, err
	}

	oldStatus := o.Status()
	if err = o.Cancel(h.clock.Now()); err != nil {
		return nil, order.Unknown, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, order.Unknown, err
	}

	return o, oldStatus, nil
}
