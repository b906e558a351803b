package commands_test

import (
	"errors"
	"testing"

	"savannah/internal/core/application/usecases/commands"
	"savannah/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRegisterHandler(factory *MockCustomerUoWFactory) commands.RegisterCustomerCommandHandler {
	return commands.NewRegisterCustomerCommandHandler(factory, noSleepGenerator(), fixedClock(), discardLogger())
}

func TestRegisterCustomerCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	email := "john@example.com"
	cmd, _ := commands.NewRegisterCustomerCommand("John Doe", mustPhone("+254712345678"), &email)

	repo := new(MockCustomerRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CustomerRepository").Return(repo).Once(),
		repo.On("EmailExists", ctx, email).Return(false, nil).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockCustomerUoWFactory)
	factory.On("Create").Return(uow).Once()

	c, err := newRegisterHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "John Doe", c.Name())
	assert.Regexp(t, `^CUST\d{6}$`, c.Code().String())
	assert.Equal(t, fixedNow, c.CreatedAt())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestRegisterCustomerCommandHandler_Handle_WithoutEmailSkipsLookup(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewRegisterCustomerCommand("Jane", mustPhone("+254700000001"), nil)

	repo := new(MockCustomerRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CustomerRepository").Return(repo).Once()
	repo.On("Add", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockCustomerUoWFactory)
	factory.On("Create").Return(uow).Once()

	c, err := newRegisterHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Nil(t, c.Email())
	repo.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
}

func TestRegisterCustomerCommandHandler_Handle_DuplicateEmail(t *testing.T) {
	ctx := t.Context()
	email := "john@example.com"
	cmd, _ := commands.NewRegisterCustomerCommand("John Doe", mustPhone("+254712345678"), &email)

	repo := new(MockCustomerRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CustomerRepository").Return(repo).Once()
	repo.On("EmailExists", ctx, email).Return(true, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockCustomerUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err := newRegisterHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrDuplicateEmail)
	require.ErrorIs(t, err, errs.ErrConflict)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRegisterCustomerCommandHandler_Handle_EmailRaceIsDuplicateEmail(t *testing.T) {
	ctx := t.Context()
	email := "john@example.com"
	cmd, _ := commands.NewRegisterCustomerCommand("John Doe", mustPhone("+254712345678"), &email)

	repo := new(MockCustomerRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CustomerRepository").Return(repo).Once()
	repo.On("EmailExists", ctx, email).Return(false, nil).Once()
	repo.On("Add", ctx, mock.Anything).Return(errs.NewConflictError("email", email)).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockCustomerUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err := newRegisterHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrDuplicateEmail)
	factory.AssertNumberOfCalls(t, "Create", 1)
}

func TestRegisterCustomerCommandHandler_Handle_RetriesCodeCollision(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewRegisterCustomerCommand("John Doe", mustPhone("+254712345678"), nil)

	repo := new(MockCustomerRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("CustomerRepository").Return(repo).Twice()
	repo.On("Add", ctx, mock.Anything).Return(errs.NewConflictError("code", "CUST000001")).Once()
	repo.On("Add", ctx, mock.Anything).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()
	factory := new(MockCustomerUoWFactory)
	factory.On("Create").Return(uow).Twice()

	c, err := newRegisterHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.NotNil(t, c)
	repo.AssertNumberOfCalls(t, "Add", 2)
	factory.AssertExpectations(t)
}

func TestRegisterCustomerCommandHandler_Handle_InvalidEmail(t *testing.T) {
	ctx := t.Context()
	email := "not-an-email"
	cmd, _ := commands.NewRegisterCustomerCommand("John Doe", mustPhone("+254712345678"), &email)
	factory := new(MockCustomerUoWFactory)

	_, err := newRegisterHandler(factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	factory.AssertNotCalled(t, "Create")
}

func TestRegisterCustomerCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewRegisterCustomerCommand("John Doe", mustPhone("+254712345678"), nil)

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(errors.New("begin error")).Once()
	factory := new(MockCustomerUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err := newRegisterHandler(factory).Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}

func TestRegisterCustomerCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockCustomerUoWFactory)

	_, err := newRegisterHandler(factory).Handle(t.Context(), commands.RegisterCustomerCommand{})

	require.ErrorIs(t, err, commands.ErrRegisterCustomerCommandIsNotConstructed)
}
