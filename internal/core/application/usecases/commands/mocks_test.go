package commands_test

import (
	"context"
	"log/slog"
	"time"

	"savannah/internal/core/application/usecases/commands"
	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/notification"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/domain/services"
	"savannah/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func fixedClock() ports.Clock {
	return ports.ClockFunc(func() time.Time { return fixedNow })
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func noSleepGenerator() *services.UniqueCodeGenerator {
	g, _ := services.NewUniqueCodeGenerator(
		services.DefaultRetryPolicy(),
		services.WithSleep(func(context.Context, time.Duration) error { return nil }),
	)
	return g
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) GetUnnotified(ctx context.Context, from, to time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, from, to, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Add(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*customer.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockUoW satisfies OrderUoW, CustomerUoW and UoW.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CustomerRepository() ports.CustomerRepository {
	args := m.Called()
	return args.Get(0).(ports.CustomerRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCustomerUoWFactory struct{ mock.Mock }

func (m *MockCustomerUoWFactory) Create() commands.CustomerUoW {
	args := m.Called()
	return args.Get(0).(commands.CustomerUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockTaskQueue struct{ mock.Mock }

func (m *MockTaskQueue) Enqueue(ctx context.Context, task notification.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type MockTaskHandler struct{ mock.Mock }

func (m *MockTaskHandler) Handle(ctx context.Context, task notification.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type MockSMSSender struct{ mock.Mock }

func (m *MockSMSSender) Send(ctx context.Context, phone kernel.PhoneNumber, message string) (bool, error) {
	args := m.Called(ctx, phone, message)
	return args.Bool(0), args.Error(1)
}

type MockTaskDeduplicator struct{ mock.Mock }

func (m *MockTaskDeduplicator) Claim(ctx context.Context, taskID kernel.UUID, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, taskID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskDeduplicator) Complete(ctx context.Context, taskID kernel.UUID, ttl time.Duration) error {
	args := m.Called(ctx, taskID, ttl)
	return args.Error(0)
}

func (m *MockTaskDeduplicator) Release(ctx context.Context, taskID kernel.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func mustPhone(raw string) kernel.PhoneNumber {
	phone, err := kernel.ParsePhoneNumber(raw, kernel.DefaultCountryCode)
	if err != nil {
		panic(err)
	}
	return phone
}

func newTestCustomer(name, phone string) *customer.Customer {
	code, _ := customer.NewCode(1)
	c, err := customer.NewCustomer(kernel.NewUUID(), code, name, nil, mustPhone(phone), fixedNow)
	if err != nil {
		panic(err)
	}
	return c
}

func restoreOrder(customerID kernel.UUID, status order.Status, smsSent bool) *order.Order {
	number, _ := order.NewNumber(fixedNow, 1234)
	o, err := order.RestoreOrder(order.Snapshot{
		ID:         kernel.NewUUID(),
		Number:     number,
		CustomerID: customerID,
		Item:       "Laptop",
		Amount:     mustDecimal("25.00"),
		Quantity:   3,
		Status:     status,
		SMSSent:    smsSent,
		CreatedAt:  fixedNow,
		UpdatedAt:  fixedNow,
	})
	if err != nil {
		panic(err)
	}
	return o
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
