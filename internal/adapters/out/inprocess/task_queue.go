package inprocess

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/ports"
	"savannah/internal/pkg/errs"

	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultWorkers  = 4
	DefaultCapacity = 256
)

var ErrQueueClosed = errors.New("task queue is closed")

type envelope struct {
	task notification.Task
	span trace.SpanContext
}

// TaskQueue is a buffered channel drained by a fixed pool of workers.
// Enqueue never blocks: a full buffer is reported as an unavailable
// dependency.
type TaskQueue struct {
	tasks   chan envelope
	handler ports.TaskHandler
	workers int
	logger  *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewTaskQueue(handler ports.TaskHandler, workers, capacity int, logger *slog.Logger) *TaskQueue {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &TaskQueue{
		tasks:   make(chan envelope, capacity),
		handler: handler,
		workers: workers,
		logger:  logger.With("component", "inprocess_task_queue"),
	}
}

// Enqueue implements ports.TaskQueue. The span context of ctx travels with
// the task so the worker span joins the request trace.
func (q *TaskQueue) Enqueue(ctx context.Context, task notification.Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return errs.NewDependencyUnavailableError("task_queue", ErrQueueClosed)
	}

	select {
	case q.tasks <- envelope{task: task, span: trace.SpanContextFromContext(ctx)}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errs.NewDependencyUnavailableError("task_queue", errors.New("buffer is full"))
	}
}

// Start launches the workers. Tasks are handled with ctx as the parent
// context; cancelling it aborts tasks in flight.
func (q *TaskQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true

	for i := range q.workers {
		q.wg.Add(1)
		go q.work(ctx, i)
	}
	q.logger.InfoContext(ctx, "task queue started", "workers", q.workers, "capacity", cap(q.tasks))
}

// Close stops accepting tasks, lets the workers drain the buffer and waits
// for them.
func (q *TaskQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

func (q *TaskQueue) work(ctx context.Context, worker int) {
	defer q.wg.Done()
	for env := range q.tasks {
		q.handle(ctx, worker, env)
	}
}

func (q *TaskQueue) handle(ctx context.Context, worker int, env envelope) {
	if env.span.IsValid() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, env.span)
	}

	defer func() {
		if r := recover(); r != nil {
			q.logger.ErrorContext(ctx, "task handler panicked",
				"worker", worker, "task_id", env.task.ID.String(), "panic", r)
		}
	}()

	if err := q.handler.Handle(ctx, env.task); err != nil {
		q.logger.ErrorContext(ctx, "dropping failed task",
			"worker", worker,
			"task_id", env.task.ID.String(),
			"kind", string(env.task.Kind),
			"order_id", env.task.OrderID.String(),
			"error", err)
	}
}
