package notification

import (
	"fmt"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"
)

// Kind names the lifecycle event a task notifies about.
type Kind string

const (
	KindOrderCreated       Kind = "order_created"
	KindOrderStatusChanged Kind = "order_status_changed"
)

// Task is a unit of notification work placed on the task queue. It carries
// identifiers only: the handler reloads the order and customer, so a task
// that runs late still sees current data.
//
// Delivery is at-least-once. ID is stable across redeliveries and is the key
// used for de-duplication.
type Task struct {
	ID         kernel.UUID  `json:"id"`
	Kind       Kind         `json:"kind"`
	OrderID    kernel.UUID  `json:"order_id"`
	OldStatus  order.Status `json:"old_status,omitempty"`
	NewStatus  order.Status `json:"new_status,omitempty"`
	Force      bool         `json:"force,omitempty"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
}

// NewOrderCreatedTask requests the creation message for orderID. force makes
// the handler send even when the order is already marked as notified.
func NewOrderCreatedTask(orderID kernel.UUID, force bool, now time.Time) (Task, error) {
	if err := orderID.Validate(); err != nil {
		return Task{}, err
	}
	return Task{
		ID:         kernel.NewUUID(),
		Kind:       KindOrderCreated,
		OrderID:    orderID,
		Force:      force,
		EnqueuedAt: now,
	}, nil
}

// NewOrderStatusChangedTask requests the status message for a transition into
// newStatus. Only notifiable statuses are accepted.
func NewOrderStatusChangedTask(orderID kernel.UUID, oldStatus, newStatus order.Status, now time.Time) (Task, error) {
	if err := orderID.Validate(); err != nil {
		return Task{}, err
	}
	if !newStatus.IsNotifiable() {
		return Task{}, errs.NewValueIsInvalidErrorWithCause(
			"new_status",
			fmt.Errorf("%s does not trigger a notification", newStatus),
		)
	}
	return Task{
		ID:         kernel.NewUUID(),
		Kind:       KindOrderStatusChanged,
		OrderID:    orderID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		EnqueuedAt: now,
	}, nil
}

// Validate checks a task decoded from the queue.
func (t Task) Validate() error {
	if err := t.ID.Validate(); err != nil {
		return err
	}
	if err := t.OrderID.Validate(); err != nil {
		return err
	}
	switch t.Kind {
	case KindOrderCreated:
		return nil
	case KindOrderStatusChanged:
		if !t.NewStatus.IsNotifiable() {
			return errs.NewValueIsInvalidErrorWithCause(
				"new_status",
				fmt.Errorf("%s does not trigger a notification", t.NewStatus),
			)
		}
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a task kind", t.Kind))
	}
}
