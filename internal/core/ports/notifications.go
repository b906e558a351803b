package ports

import (
	"context"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/notification"
)

// SMSSender delivers a single text message. A false result with a nil
// error means the provider answered but rejected the message.
type SMSSender interface {
	Send(ctx context.Context, phone kernel.PhoneNumber, message string) (bool, error)
}

// TaskQueue accepts notification tasks for asynchronous, at-least-once
// execution. Enqueue returns once the task is accepted.
type TaskQueue interface {
	Enqueue(ctx context.Context, task notification.Task) error
}

// TaskHandler executes a dequeued task. Queue adapters redeliver the task
// when it returns an error.
type TaskHandler interface {
	Handle(ctx context.Context, task notification.Task) error
}

// TaskDeduplicator records which tasks have run so that redeliveries are
// skipped. A claim marks a task in progress; Complete or Release settles it.
type TaskDeduplicator interface {
	// Claim returns false when the task id is held by a live claim or was
	// completed. The claim lapses after ttl unless it is settled first.
	Claim(ctx context.Context, taskID kernel.UUID, ttl time.Duration) (bool, error)

	// Complete records the task as done for ttl.
	Complete(ctx context.Context, taskID kernel.UUID, ttl time.Duration) error

	// Release forgets a claim so a redelivery can run the task again.
	Release(ctx context.Context, taskID kernel.UUID) error
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}
