package commands

import (
	"context"
	"errors"
	"log/slog"

	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/ports"
	"savannah/internal/pkg/errs"
)

// NotifyOrderStatusChangedCommandHandler sends the message for the status an
// order entered. The message names the status carried by the command, not the
// order's current one, so a late task still describes the transition that
// triggered it. sms_sent is never touched.
type NotifyOrderStatusChangedCommandHandler struct {
	uowFactory UoWFactory
	sender     ports.SMSSender
	metrics    *Metrics
	logger     *slog.Logger
}

func NewNotifyOrderStatusChangedCommandHandler(
	uowFactory UoWFactory,
	sender ports.SMSSender,
	metrics *Metrics,
	logger *slog.Logger,
) NotifyOrderStatusChangedCommandHandler {
	return NotifyOrderStatusChangedCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		metrics:    metrics,
		logger:     logger.With("component", "notify_order_status_changed_handler"),
	}
}

func (h NotifyOrderStatusChangedCommandHandler) Handle(ctx context.Context, cmd NotifyOrderStatusChangedCommand) error {
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

	message, ok := notification.StatusMessage(o.Number().String(), cmd.NewStatus())
	if !ok {
		return nil
	}
	if c.PhoneNumber().IsEmpty() {
		h.logger.WarnContext(ctx, "customer has no phone number", "order_id", o.ID().String())
		return nil
	}

	sent, err := h.sender.Send(ctx, c.PhoneNumber(), message)
	if err != nil {
		h.metrics.notificationFailed(ctx, notification.KindOrderStatusChanged)
		h.logger.ErrorContext(ctx, "failed to send status message",
			"order_id", o.ID().String(), "status", cmd.NewStatus().String(), "error", err)
		return errs.NewDependencyUnavailableError("sms", err)
	}
	if !sent {
		h.metrics.notificationFailed(ctx, notification.KindOrderStatusChanged)
		h.logger.WarnContext(ctx, "status message rejected by provider",
			"order_id", o.ID().String(), "status", cmd.NewStatus().String())
		return nil
	}

	h.metrics.notificationSent(ctx, notification.KindOrderStatusChanged)
	h.logger.InfoContext(ctx, "status message sent",
		"order_id", o.ID().String(), "status", cmd.NewStatus().String())
	return nil
}
