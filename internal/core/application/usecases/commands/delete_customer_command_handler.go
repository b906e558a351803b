package commands

import (
	"context"
	"log/slog"
)

type DeleteCustomerCommandHandler struct {
	uowFactory CustomerUoWFactory
	logger     *slog.Logger
}

func NewDeleteCustomerCommandHandler(uowFactory CustomerUoWFactory, logger *slog.Logger) DeleteCustomerCommandHandler {
	return DeleteCustomerCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "delete_customer_handler"),
	}
}

// Handle deletes the customer. The store cascades the delete to the
// customer's orders. An unknown id yields errs.ObjectNotFoundError.
func (h DeleteCustomerCommandHandler) Handle(ctx context.Context, cmd DeleteCustomerCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.CustomerRepository().Delete(ctx, cmd.CustomerID()); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "customer deleted", "customer_id", cmd.CustomerID().String())
	return nil
}
