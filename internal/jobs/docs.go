// Package jobs provides scheduled background tasks built on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. NotificationRetryJob - sweeps orders whose creation SMS was never
//     confirmed and enqueues the message again (default "@every 1m")
//
// # Usage
//
//	jobManager := jobs.NewJobManager()
//	jobManager.Add("notification_retry", jobs.NewNotificationRetryJob(handler, cmd, "", logger))
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed sweep is logged and retried on the next tick. Overlapping runs are
// skipped. Failed job starts stop the jobs already running.
package jobs
