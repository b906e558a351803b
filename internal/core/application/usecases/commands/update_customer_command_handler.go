package commands

import (
	"context"

	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/ports"
)

// UpdateCustomerCommandHandler loads a customer, applies the patch and stores
// the result. An unknown id yields errs.ObjectNotFoundError.
type UpdateCustomerCommandHandler struct {
	uowFactory CustomerUoWFactory
	clock      ports.Clock
}

func NewUpdateCustomerCommandHandler(uowFactory CustomerUoWFactory, clock ports.Clock) UpdateCustomerCommandHandler {
	return UpdateCustomerCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h UpdateCustomerCommandHandler) Handle(ctx context.Context, cmd UpdateCustomerCommand) (*customer.Customer, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	customerRepo := uow.CustomerRepository()
	c, err := customerRepo.Get(ctx, cmd.CustomerID())
	if err != nil {
		return nil, err
	}

	if err = c.Update(cmd.Patch(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = customerRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
