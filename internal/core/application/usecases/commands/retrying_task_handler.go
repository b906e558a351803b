package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/domain/services"
	"savannah/internal/core/ports"
	"savannah/internal/pkg/errs"
)

// DefaultTaskRetryPolicy is used by queue workers when none is configured.
func DefaultTaskRetryPolicy() services.RetryPolicy {
	return services.RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    30 * time.Second,
	}
}

// RetryingTaskHandler runs a task handler up to MaxAttempts times with
// exponential backoff. Errors that cannot heal on their own (validation, a
// missing order) stop the loop immediately. The last error is returned so
// the queue adapter can log and drop the task.
type RetryingTaskHandler struct {
	next   ports.TaskHandler
	policy services.RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
	logger *slog.Logger
}

func NewRetryingTaskHandler(next ports.TaskHandler, policy services.RetryPolicy, logger *slog.Logger) *RetryingTaskHandler {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &RetryingTaskHandler{
		next:   next,
		policy: policy,
		sleep:  sleepContext,
		logger: logger.With("component", "task_retrier"),
	}
}

// Handle implements ports.TaskHandler.
func (h *RetryingTaskHandler) Handle(ctx context.Context, task notification.Task) error {
	var err error
	for attempt := 1; attempt <= h.policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := h.policy.Delay(attempt - 1)
			h.logger.WarnContext(ctx, "retrying notification task",
				"task_id", task.ID.String(), "attempt", attempt, "delay", delay.String(), "error", err)
			if sleepErr := h.sleep(ctx, delay); sleepErr != nil {
				return errors.Join(err, sleepErr)
			}
		}

		err = h.next.Handle(ctx, task)
		if err == nil || isPermanent(err) {
			return err
		}
	}
	return err
}

func isPermanent(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
