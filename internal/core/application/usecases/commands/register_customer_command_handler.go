package commands

import (
	"context"
	"errors"
	"log/slog"

	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/services"
	"savannah/internal/core/ports"
	"savannah/internal/pkg/errs"
)

// RegisterCustomerCommandHandler stores a new customer under a freshly drawn
// code. A code collision reported by the store is retried with a new code;
// a taken email fails with a ConflictError matching ErrDuplicateEmail.
type RegisterCustomerCommandHandler struct {
	uowFactory CustomerUoWFactory
	generator  *services.UniqueCodeGenerator
	clock      ports.Clock
	logger     *slog.Logger
}

func NewRegisterCustomerCommandHandler(
	uowFactory CustomerUoWFactory,
	generator *services.UniqueCodeGenerator,
	clock ports.Clock,
	logger *slog.Logger,
) RegisterCustomerCommandHandler {
	return RegisterCustomerCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		clock:      clock,
		logger:     logger.With("component", "register_customer_handler"),
	}
}

func (h RegisterCustomerCommandHandler) Handle(ctx context.Context, cmd RegisterCustomerCommand) (*customer.Customer, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var registered *customer.Customer
	err := h.generator.Issue(ctx, "code", func(ctx context.Context) error {
		c, err := h.register(ctx, cmd, h.generator.NewCustomerCode())
		if err != nil {
			return err
		}
		registered = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "customer registered",
		"customer_id", registered.ID().String(), "code", registered.Code().String())
	return registered, nil
}

func (h RegisterCustomerCommandHandler) register(
	ctx context.Context,
	cmd RegisterCustomerCommand,
	code customer.Code,
) (*customer.Customer, error) {
	c, err := customer.NewCustomer(kernel.NewUUID(), code, cmd.Name(), cmd.Email(), cmd.PhoneNumber(), h.clock.Now())
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

	customerRepo := uow.CustomerRepository()
	if email := c.Email(); email != nil {
		exists, err := customerRepo.EmailExists(ctx, *email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.NewConflictErrorWithCause("email", *email, ErrDuplicateEmail)
		}
	}

	if err = customerRepo.Add(ctx, c); err != nil {
		return nil, duplicateEmail(err, c.Email())
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// duplicateEmail tags an email conflict raised by the store with
// ErrDuplicateEmail. It happens when two registrations race past the
// EmailExists check.
func duplicateEmail(err error, email *string) error {
	var conflict *errs.ConflictError
	if email != nil && errors.As(err, &conflict) && conflict.ParamName == "email" {
		return errs.NewConflictErrorWithCause("email", *email, ErrDuplicateEmail)
	}
	return err
}
