package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/domain/services"
	"savannah/internal/core/ports"
	"savannah/internal/pkg/errs"
)

// CreateOrderCommandHandler persists a pending order under a freshly drawn
// order number and, once committed, enqueues the creation notification.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	generator  *services.UniqueCodeGenerator
	notifier   notifier
	metrics    *Metrics
	clock      ports.Clock
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	generator *services.UniqueCodeGenerator,
	queue ports.TaskQueue,
	metrics *Metrics,
	clock ports.Clock,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	logger = logger.With("component", "create_order_handler")
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		notifier:   notifier{queue: queue, clock: clock, logger: logger},
		metrics:    metrics,
		clock:      clock,
		logger:     logger,
	}
}

// Handle returns a ValueIsInvalidError matching ErrCustomerNotFound when the
// customer does not exist, and a ConflictError when no free order number was
// found within the retry budget.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var created *order.Order
	err := h.generator.Issue(ctx, "order_number", func(ctx context.Context) error {
		now := h.clock.Now()
		o, err := h.create(ctx, cmd, h.generator.NewOrderNumber(now), now)
		if err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.orderCreated(ctx)
	h.logger.InfoContext(ctx, "order created",
		"order_id", created.ID().String(),
		"order_number", created.Number().String(),
		"customer_id", created.CustomerID().String())

	h.notifier.orderCreated(ctx, created.ID(), false)
	return created, nil
}

func (h CreateOrderCommandHandler) create(
	ctx context.Context,
	cmd CreateOrderCommand,
	number order.Number,
	now time.Time,
) (*order.Order, error) {
	o, err := order.NewOrder(
		kernel.NewUUID(), number, cmd.CustomerID(), cmd.Item(), cmd.Amount(), cmd.Quantity(), cmd.Notes(), now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err = uow.CustomerRepository().Get(ctx, cmd.CustomerID()); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause("customer_id", ErrCustomerNotFound)
		}
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
