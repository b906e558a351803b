package commands

import (
	"context"
	"errors"
	"log/slog"

	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/ports"
	"savannah/internal/pkg/errs"
)

// NotifyOrderCreatedCommandHandler renders the creation message, sends it and
// records sms_sent on success.
//
// A provider rejection, a missing phone number or an order deleted in the
// meantime are logged and end the task. A transport failure is returned as
// errs.DependencyUnavailableError so that the queue redelivers the task.
type NotifyOrderCreatedCommandHandler struct {
	uowFactory UoWFactory
	sender     ports.SMSSender
	metrics    *Metrics
	clock      ports.Clock
	logger     *slog.Logger
}

func NewNotifyOrderCreatedCommandHandler(
	uowFactory UoWFactory,
	sender ports.SMSSender,
	metrics *Metrics,
	clock ports.Clock,
	logger *slog.Logger,
) NotifyOrderCreatedCommandHandler {
	return NotifyOrderCreatedCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		metrics:    metrics,
		clock:      clock,
		logger:     logger.With("component", "notify_order_created_handler"),
	}
}

func (h NotifyOrderCreatedCommandHandler) Handle(ctx context.Context, cmd NotifyOrderCreatedCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, c, err := loadOrderWithCustomer(ctx, h.uowFactory, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "order no longer exists, skipping notification",
			"order_id", cmd.OrderID().String())
		return nil
	}
	if err != nil {
		return err
	}

	if o.SMSSent() && !cmd.Force() {
		h.logger.DebugContext(ctx, "creation message already sent", "order_id", o.ID().String())
		return nil
	}
	if c.PhoneNumber().IsEmpty() {
		h.logger.WarnContext(ctx, "customer has no phone number", "order_id", o.ID().String())
		return nil
	}

	message := notification.CreatedMessage(c.Name(), o.Number().String(), o.Item(), o.TotalAmount())
	sent, err := h.sender.Send(ctx, c.PhoneNumber(), message)
	if err != nil {
		h.metrics.notificationFailed(ctx, notification.KindOrderCreated)
		h.logger.ErrorContext(ctx, "failed to send creation message", "order_id", o.ID().String(), "error", err)
		return errs.NewDependencyUnavailableError("sms", err)
	}
	if !sent {
		h.metrics.notificationFailed(ctx, notification.KindOrderCreated)
		h.logger.WarnContext(ctx, "creation message rejected by provider", "order_id", o.ID().String())
		return nil
	}
	h.metrics.notificationSent(ctx, notification.KindOrderCreated)

	if err = h.markSent(ctx, o); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "creation message sent", "order_id", o.ID().String())
	return nil
}

// markSent reloads the order so that mutations made while the message was in
// flight are not overwritten.
func (h NotifyOrderCreatedCommandHandler) markSent(ctx context.Context, sent *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, sent.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "order deleted after its message was sent", "order_id", sent.ID().String())
		return nil
	}
	if err != nil {
		return err
	}

	o.MarkSMSSent(h.clock.Now())
	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// loadOrderWithCustomer reads an order and its customer in one short
// transaction.
func loadOrderWithCustomer(
	ctx context.Context,
	uowFactory UoWFactory,
	orderID kernel.UUID,
) (*order.Order, *customer.Customer, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	c, err := uow.CustomerRepository().Get(ctx, o.CustomerID())
	if err != nil {
		return nil, nil, err
	}

	return o, c, nil
}
