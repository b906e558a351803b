package commands

import (
	"context"
	"log/slog"
	"time"

	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/ports"
	"savannah/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultClaimTTL is how long a finished task id is remembered.
	DefaultClaimTTL = 24 * time.Hour

	// DefaultInProgressTTL bounds how long a task stays claimed when its
	// worker dies before settling the claim.
	DefaultInProgressTTL = 10 * time.Minute

	settleTimeout = 5 * time.Second
)

// DispatchNotificationCommandHandler is the entry point of every queue
// adapter. It claims the task id for DefaultInProgressTTL, skips tasks that
// already ran and routes the task by kind. A successful task is completed
// for the full claim TTL; a failed one is released so that the redelivery
// can run it. Both run on a context detached from cancellation, so a
// shutdown in the middle of a send still settles the claim.
type DispatchNotificationCommandHandler struct {
	created       NotifyOrderCreatedCommandHandler
	status        NotifyOrderStatusChangedCommandHandler
	dedup         ports.TaskDeduplicator
	claimTTL      time.Duration
	inProgressTTL time.Duration
	tracer        trace.Tracer
	logger        *slog.Logger
}

func NewDispatchNotificationCommandHandler(
	created NotifyOrderCreatedCommandHandler,
	status NotifyOrderStatusChangedCommandHandler,
	dedup ports.TaskDeduplicator,
	claimTTL time.Duration,
	logger *slog.Logger,
) DispatchNotificationCommandHandler {
	if claimTTL <= 0 {
		claimTTL = DefaultClaimTTL
	}
	return DispatchNotificationCommandHandler{
		created:       created,
		status:        status,
		dedup:         dedup,
		claimTTL:      claimTTL,
		inProgressTTL: min(DefaultInProgressTTL, claimTTL),
		tracer:        otel.Tracer("savannah/notifications"),
		logger:        logger.With("component", "notification_dispatcher"),
	}
}

// Handle implements ports.TaskHandler.
func (h DispatchNotificationCommandHandler) Handle(ctx context.Context, task notification.Task) (err error) {
	ctx, span := h.tracer.Start(ctx, "notification.dispatch", trace.WithAttributes(
		attribute.String("notification.task_id", task.ID.String()),
		attribute.String("notification.kind", string(task.Kind)),
		attribute.String("order.id", task.OrderID.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err = task.Validate(); err != nil {
		// A malformed task never becomes valid; drop it.
		h.logger.ErrorContext(ctx, "dropping invalid notification task", "error", err)
		return nil
	}

	claimed, err := h.dedup.Claim(ctx, task.ID, h.inProgressTTL)
	if err != nil {
		return errs.NewDependencyUnavailableError("deduplicator", err)
	}
	if !claimed {
		h.logger.InfoContext(ctx, "notification task already handled", "task_id", task.ID.String())
		return nil
	}

	err = h.route(ctx, task)

	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	if err != nil {
		if releaseErr := h.dedup.Release(settleCtx, task.ID); releaseErr != nil {
			h.logger.ErrorContext(ctx, "failed to release task claim",
				"task_id", task.ID.String(), "error", releaseErr)
		}
		return err
	}

	if completeErr := h.dedup.Complete(settleCtx, task.ID, h.claimTTL); completeErr != nil {
		// The in-progress claim still suppresses redeliveries until it lapses.
		h.logger.WarnContext(ctx, "failed to mark task completed",
			"task_id", task.ID.String(), "error", completeErr)
	}
	return nil
}

func (h DispatchNotificationCommandHandler) route(ctx context.Context, task notification.Task) error {
	switch task.Kind {
	case notification.KindOrderCreated:
		cmd, err := NewNotifyOrderCreatedCommand(task.OrderID, task.Force)
		if err != nil {
			return err
		}
		return h.created.Handle(ctx, cmd)
	case notification.KindOrderStatusChanged:
		cmd, err := NewNotifyOrderStatusChangedCommand(task.OrderID, task.OldStatus, task.NewStatus)
		if err != nil {
			return err
		}
		return h.status.Handle(ctx, cmd)
	default:
		return errs.NewValueIsInvalidError("kind")
	}
}
