package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "savannah/internal/adapters/out/postgres"
	"savannah/internal/adapters/out/postgres/pgtest"
	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/ports"
	"savannah/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

var now = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

// UnitOfWorkIntegrationTestSuite exercises transactions spanning the customer
// and order repositories.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_CreatesSeparateInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.CustomerRepository())
	suite.NotNil(uow1.OrderRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitAndRollbackWithoutBegin_Fail() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsCustomerAndOrder() {
	ctx := suite.T().Context()
	c := newCustomer(1)
	o := newOrder(c.ID(), 1)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, c))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	fresh := suite.factory.Create()
	_, err := fresh.CustomerRepository().Get(ctx, c.ID())
	suite.Require().NoError(err)
	got, err := fresh.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(c.ID(), got.CustomerID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsBothAggregates() {
	ctx := suite.T().Context()
	c := newCustomer(1)
	o := newOrder(c.ID(), 1)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, c))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	_, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err, "visible inside the transaction")
	suite.Require().NoError(uow.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.CustomerRepository().Get(ctx, c.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = fresh.OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestIsolation_BetweenInstances() {
	ctx := suite.T().Context()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	c1, c2 := newCustomer(1), newCustomer(2)

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))
	suite.Require().NoError(uow1.CustomerRepository().Add(ctx, c1))
	suite.Require().NoError(uow2.CustomerRepository().Add(ctx, c2))

	_, err := uow1.CustomerRepository().Get(ctx, c2.ID())
	suite.Require().Error(err, "uncommitted row of another transaction")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.CustomerRepository().Get(ctx, c1.ID())
	suite.Require().NoError(err)
	_, err = fresh.CustomerRepository().Get(ctx, c2.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDeleteCustomer_CascadesToOrders() {
	ctx := suite.T().Context()
	c := newCustomer(1)
	o1, o2 := newOrder(c.ID(), 1), newOrder(c.ID(), 2)
	other := newCustomer(2)
	kept := newOrder(other.ID(), 3)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, c))
	suite.Require().NoError(uow.CustomerRepository().Add(ctx, other))
	for _, o := range []*order.Order{o1, o2, kept} {
		suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	}
	suite.Require().NoError(uow.Commit(ctx))

	deleting := suite.factory.Create()
	suite.Require().NoError(deleting.Begin(ctx))
	suite.Require().NoError(deleting.CustomerRepository().Delete(ctx, c.ID()))
	suite.Require().NoError(deleting.Commit(ctx))

	fresh := suite.factory.Create()
	_, err := fresh.OrderRepository().Get(ctx, o1.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = fresh.OrderRepository().Get(ctx, o2.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = fresh.OrderRepository().Get(ctx, kept.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithoutTransaction_AutoCommits() {
	ctx := suite.T().Context()
	c := newCustomer(1)

	suite.Require().NoError(suite.factory.Create().CustomerRepository().Add(ctx, c))

	_, err := suite.factory.Create().CustomerRepository().Get(ctx, c.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConflict_AbortsOnlyItsTransaction() {
	ctx := suite.T().Context()
	existing := newCustomer(5)
	suite.Require().NoError(suite.factory.Create().CustomerRepository().Add(ctx, existing))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	err := uow.CustomerRepository().Add(ctx, newCustomer(5))
	suite.Require().ErrorIs(err, errs.ErrConflict)
	suite.Require().NoError(uow.Rollback(ctx))

	retry := suite.factory.Create()
	suite.Require().NoError(retry.Begin(ctx))
	suite.Require().NoError(retry.CustomerRepository().Add(ctx, newCustomer(6)))
	suite.Require().NoError(retry.Commit(ctx))
}

func newCustomer(n int) *customer.Customer {
	code, _ := customer.NewCode(n)
	phone, _ := kernel.ParsePhoneNumber("0700123456", kernel.DefaultCountryCode)
	c, _ := customer.NewCustomer(kernel.NewUUID(), code, "Customer", nil, phone, now)
	return c
}

func newOrder(customerID kernel.UUID, n int) *order.Order {
	number, _ := order.NewNumber(now, n)
	o, _ := order.NewOrder(kernel.NewUUID(), number, customerID, "Laptop", decimal.NewFromInt(10), 1, "", now)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
