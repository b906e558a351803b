package jobs

import (
	"context"
	"log/slog"
	"time"

	"savannah/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultNotificationRetrySchedule runs the sweep once a minute.
const DefaultNotificationRetrySchedule = "@every 1m"

// RetryUnnotifiedOrdersHandler is satisfied by
// commands.RetryUnnotifiedOrdersCommandHandler.
type RetryUnnotifiedOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.RetryUnnotifiedOrdersCommand) (int, error)
}

// NotificationRetryJob re-enqueues creation messages for orders that were
// never confirmed as sent.
type NotificationRetryJob struct {
	handler  RetryUnnotifiedOrdersHandler
	cmd      commands.RetryUnnotifiedOrdersCommand
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewNotificationRetryJob(
	handler RetryUnnotifiedOrdersHandler,
	cmd commands.RetryUnnotifiedOrdersCommand,
	schedule string,
	logger *slog.Logger,
) *NotificationRetryJob {
	if schedule == "" {
		schedule = DefaultNotificationRetrySchedule
	}
	return &NotificationRetryJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		timeout:  30 * time.Second,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "notification_retry_job"),
	}
}

func (j *NotificationRetryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification retry job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *NotificationRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification retry job stopped")
}

func (j *NotificationRetryJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification retry job failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "Re-enqueued order notifications", "count", n)
	}
}
