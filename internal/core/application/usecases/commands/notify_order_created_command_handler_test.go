package commands_test

import (
	"errors"
	"testing"

	"savannah/internal/core/application/usecases/commands"
	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// expectOrderWithCustomer mocks the read transaction of a notification
// handler.
func expectOrderWithCustomer(t *testing.T, uow *MockUoW, o *order.Order, c *customer.Customer) (*MockOrderRepository, *MockCustomerRepository) {
	t.Helper()
	ctx := t.Context()
	orders := new(MockOrderRepository)
	customers := new(MockCustomerRepository)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Once()
	orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	uow.On("CustomerRepository").Return(customers).Once()
	customers.On("Get", ctx, c.ID()).Return(c, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	return orders, customers
}

func newNotifyCreatedHandler(factory *MockUoWFactory, sender *MockSMSSender) commands.NotifyOrderCreatedCommandHandler {
	return commands.NewNotifyOrderCreatedCommandHandler(factory, sender, commands.NopMetrics(), fixedClock(), discardLogger())
}

func TestNotifyOrderCreatedCommandHandler_Handle_SendsAndMarks(t *testing.T) {
	ctx := t.Context()
	c := newTestCustomer("John Doe", "0712345678")
	o := restoreOrder(c.ID(), order.Pending, false)
	cmd, _ := commands.NewNotifyOrderCreatedCommand(o.ID(), false)

	readUoW := new(MockUoW)
	expectOrderWithCustomer(t, readUoW, o, c)

	writeRepo := new(MockOrderRepository)
	writeUoW := new(MockUoW)
	stored := restoreOrder(c.ID(), order.Processing, false)
	writeUoW.On("Begin", ctx).Return(nil).Once()
	writeUoW.On("OrderRepository").Return(writeRepo).Once()
	writeRepo.On("GetForUpdate", ctx, o.ID()).Return(stored, nil).Once()
	writeRepo.On("Update", ctx, stored).Return(nil).Once()
	writeUoW.On("Commit", ctx).Return(nil).Once()
	writeUoW.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(readUoW).Once()
	factory.On("Create").Return(writeUoW).Once()

	sender := new(MockSMSSender)
	expected := "Hello John Doe! Your order " + o.Number().String() + " for Laptop (Amount: 75.00) has been received."
	sender.On("Send", ctx, mustPhone("+254712345678"), expected).Return(true, nil).Once()

	err := newNotifyCreatedHandler(factory, sender).Handle(ctx, cmd)

	require.NoError(t, err)
	sender.AssertExpectations(t)
	writeRepo.AssertExpectations(t)
	assert.True(t, stored.SMSSent())
	require.NotNil(t, stored.SMSSentAt())
	assert.Equal(t, fixedNow, *stored.SMSSentAt())
	assert.Equal(t, order.Processing, stored.Status(), "a concurrent status change survives")
}

func TestNotifyOrderCreatedCommandHandler_Handle_ProviderRejectsLeavesFlags(t *testing.T) {
	ctx := t.Context()
	c := newTestCustomer("John Doe", "0712345678")
	o := restoreOrder(c.ID(), order.Pending, false)
	cmd, _ := commands.NewNotifyOrderCreatedCommand(o.ID(), false)

	uow := new(MockUoW)
	expectOrderWithCustomer(t, uow, o, c)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	sender := new(MockSMSSender)
	sender.On("Send", ctx, mock.Anything, mock.Anything).Return(false, nil).Once()

	err := newNotifyCreatedHandler(factory, sender).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, o.SMSSent())
	factory.AssertNumberOfCalls(t, "Create", 1)
}

func TestNotifyOrderCreatedCommandHandler_Handle_TransportFailureIsRetryable(t *testing.T) {
	ctx := t.Context()
	c := newTestCustomer("John Doe", "0712345678")
	o := restoreOrder(c.ID(), order.Pending, false)
	cmd, _ := commands.NewNotifyOrderCreatedCommand(o.ID(), false)

	uow := new(MockUoW)
	expectOrderWithCustomer(t, uow, o, c)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	sender := new(MockSMSSender)
	sender.On("Send", ctx, mock.Anything, mock.Anything).Return(false, errors.New("timeout")).Once()

	err := newNotifyCreatedHandler(factory, sender).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrDependencyUnavailable)
	assert.False(t, o.SMSSent())
}

func TestNotifyOrderCreatedCommandHandler_Handle_AlreadySent(t *testing.T) {
	c := newTestCustomer("John Doe", "0712345678")
	o := restoreOrder(c.ID(), order.Pending, true)
	sender := new(MockSMSSender)

	t.Run("skipped without force", func(t *testing.T) {
		cmd, _ := commands.NewNotifyOrderCreatedCommand(o.ID(), false)
		uow := new(MockUoW)
		expectOrderWithCustomer(t, uow, o, c)
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()

		require.NoError(t, newNotifyCreatedHandler(factory, sender).Handle(t.Context(), cmd))
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sent again with force", func(t *testing.T) {
		cmd, _ := commands.NewNotifyOrderCreatedCommand(o.ID(), true)
		readUoW := new(MockUoW)
		expectOrderWithCustomer(t, readUoW, o, c)
		writeRepo := new(MockOrderRepository)
		writeUoW := new(MockUoW)
		writeUoW.On("Begin", mock.Anything).Return(nil).Once()
		writeUoW.On("OrderRepository").Return(writeRepo).Once()
		writeRepo.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once()
		writeRepo.On("Update", mock.Anything, o).Return(nil).Once()
		writeUoW.On("Commit", mock.Anything).Return(nil).Once()
		writeUoW.On("Rollback", mock.Anything).Return(nil).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(readUoW).Once()
		factory.On("Create").Return(writeUoW).Once()
		forced := new(MockSMSSender)
		forced.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Once()

		require.NoError(t, newNotifyCreatedHandler(factory, forced).Handle(t.Context(), cmd))
		forced.AssertExpectations(t)
	})
}

func TestNotifyOrderCreatedCommandHandler_Handle_OrderDeleted(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewNotifyOrderCreatedCommand(id, false)

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Once()
	orders.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("id", id)).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	sender := new(MockSMSSender)

	err := newNotifyCreatedHandler(factory, sender).Handle(ctx, cmd)

	require.NoError(t, err)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}
