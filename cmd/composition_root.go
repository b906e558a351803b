package cmd

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	httpin "savannah/internal/adapters/in/http"
	kafka_in "savannah/internal/adapters/in/kafka"
	"savannah/internal/adapters/out/inprocess"
	kafka_out "savannah/internal/adapters/out/kafka"
	"savannah/internal/adapters/out/postgres"
	redis_out "savannah/internal/adapters/out/redis"
	"savannah/internal/adapters/out/sms"
	"savannah/internal/core/application/usecases/commands"
	"savannah/internal/core/application/usecases/queries"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/core/domain/services"
	"savannah/internal/core/ports"
	"savannah/internal/jobs"

	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	sqlDB      *sql.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      ports.Clock
	generator  *services.UniqueCodeGenerator
	metrics    *commands.Metrics
	policy     order.SameStatusPolicy
	logger     *slog.Logger

	queue       ports.TaskQueue
	localQueue  *inprocess.TaskQueue
	producer    *kafka_out.TaskProducer
	consumer    *kafka_in.TaskConsumer
	redisDedup  *redis_out.Deduplicator
	taskHandler ports.TaskHandler
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	sqlDB *sql.DB,
	meter metric.Meter,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	policy, err := order.ParseSameStatusPolicy(cfg.OrderSameStatusPolicy)
	if err != nil {
		return nil, err
	}
	generator, err := services.NewUniqueCodeGenerator(services.DefaultRetryPolicy())
	if err != nil {
		return nil, err
	}
	metrics, err := commands.NewMetrics(meter)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		sqlDB:      sqlDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      ports.SystemClock{},
		generator:  generator,
		metrics:    metrics,
		policy:     policy,
		logger:     logger,
	}

	c.taskHandler = commands.NewRetryingTaskHandler(
		c.CreateDispatchNotificationCommandHandler(),
		commands.DefaultTaskRetryPolicy(),
		logger,
	)

	if len(cfg.KafkaBrokers) > 0 {
		c.producer = kafka_out.NewTaskProducer(cfg.KafkaBrokers, cfg.KafkaNotificationTopic)
		c.consumer = kafka_in.NewTaskConsumer(
			cfg.KafkaBrokers, cfg.KafkaNotificationTopic, cfg.KafkaConsumerGroup, c.taskHandler, logger)
		c.queue = c.producer
	} else {
		c.localQueue = inprocess.NewTaskQueue(c.taskHandler, inprocess.DefaultWorkers, inprocess.DefaultCapacity, logger)
		c.queue = c.localQueue
	}

	return c, nil
}

// Start launches the notification workers. They stop when ctx is done.
func (c *CompositionRoot) Start(ctx context.Context) {
	if c.localQueue != nil {
		c.localQueue.Start(ctx)
	}
	if c.consumer != nil {
		go func() {
			if err := c.consumer.Run(ctx); err != nil {
				c.logger.ErrorContext(ctx, "notification consumer stopped", "error", err)
			}
		}()
	}
}

// Close drains the local queue and releases every connection.
func (c *CompositionRoot) Close() error {
	var errList []error
	if c.localQueue != nil {
		errList = append(errList, c.localQueue.Close())
	}
	if c.producer != nil {
		errList = append(errList, c.producer.Close())
	}
	if c.consumer != nil {
		errList = append(errList, c.consumer.Close())
	}
	if c.redisDedup != nil {
		errList = append(errList, c.redisDedup.Close())
	}
	if c.sqlDB != nil {
		errList = append(errList, c.sqlDB.Close())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) HealthChecks() map[string]httpin.Pinger {
	checks := map[string]httpin.Pinger{
		"postgres": httpin.PingFunc(c.sqlDB.PingContext),
	}
	if c.redisDedup != nil {
		checks["redis"] = c.redisDedup
	}
	return checks
}

func (c *CompositionRoot) HTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		RegisterCustomer: c.CreateRegisterCustomerCommandHandler(),
		UpdateCustomer:   c.CreateUpdateCustomerCommandHandler(),
		DeleteCustomer:   c.CreateDeleteCustomerCommandHandler(),

		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		UpdateOrder:       c.CreateUpdateOrderCommandHandler(),
		UpdateOrderStatus: c.CreateUpdateOrderStatusCommandHandler(),
		CancelOrder:       c.CreateCancelOrderCommandHandler(),
		MarkDelivered:     c.CreateMarkOrderDeliveredCommandHandler(),
		DeleteOrder:       c.CreateDeleteOrderCommandHandler(),
		ResendSMS:         c.CreateResendNotificationCommandHandler(),

		GetCustomer:       queries.NewGetCustomerQueryHandler(c.gormDB),
		GetCustomerByCode: queries.NewGetCustomerByCodeQueryHandler(c.gormDB),
		ListCustomers:     queries.NewListCustomersQueryHandler(c.gormDB),
		SearchCustomers:   queries.NewSearchCustomersQueryHandler(c.gormDB),
		CustomerOrders:    queries.NewGetCustomerOrdersQueryHandler(c.gormDB),
		CustomerStats:     queries.NewGetCustomerStatsQueryHandler(c.gormDB),

		GetOrder:         queries.NewGetOrderQueryHandler(c.gormDB),
		ListOrders:       queries.NewListOrdersQueryHandler(c.gormDB),
		SearchOrders:     queries.NewSearchOrdersQueryHandler(c.gormDB),
		OrdersByCustomer: queries.NewGetOrdersByCustomerQueryHandler(c.gormDB),
		OrderAnalytics:   queries.NewGetOrderAnalyticsQueryHandler(c.gormDB, c.clock),
	}, c.cfg.DefaultCountryCode, c.logger)
}

func (c *CompositionRoot) Jobs() (*jobs.JobManager, error) {
	cmd, err := commands.NewRetryUnnotifiedOrdersCommand(
		commands.DefaultRetryMinAge, commands.DefaultRetryMaxAge, commands.DefaultRetryBatchSize)
	if err != nil {
		return nil, err
	}
	jm := jobs.NewJobManager()
	jm.Add("notification_retry", jobs.NewNotificationRetryJob(
		c.CreateRetryUnnotifiedOrdersCommandHandler(), cmd, c.cfg.NotificationRetrySchedule, c.logger))
	return jm, nil
}

func (c *CompositionRoot) customerUoWFactory() commands.CustomerUoWFactory {
	return FuncCustomerUoWFactory(func() commands.CustomerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateRegisterCustomerCommandHandler() commands.RegisterCustomerCommandHandler {
	return commands.NewRegisterCustomerCommandHandler(c.customerUoWFactory(), c.generator, c.clock, c.logger)
}

func (c *CompositionRoot) CreateUpdateCustomerCommandHandler() commands.UpdateCustomerCommandHandler {
	return commands.NewUpdateCustomerCommandHandler(c.customerUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateDeleteCustomerCommandHandler() commands.DeleteCustomerCommandHandler {
	return commands.NewDeleteCustomerCommandHandler(c.customerUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.fullUoWFactory(), c.generator, c.queue, c.metrics, c.clock, c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.policy, c.queue, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.queue, c.clock, c.logger)
}

func (c *CompositionRoot) CreateMarkOrderDeliveredCommandHandler() commands.MarkOrderDeliveredCommandHandler {
	return commands.NewMarkOrderDeliveredCommandHandler(c.orderUoWFactory(), c.queue, c.clock, c.logger)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateResendNotificationCommandHandler() commands.ResendNotificationCommandHandler {
	return commands.NewResendNotificationCommandHandler(c.orderUoWFactory(), c.queue, c.clock)
}

func (c *CompositionRoot) CreateRetryUnnotifiedOrdersCommandHandler() commands.RetryUnnotifiedOrdersCommandHandler {
	return commands.NewRetryUnnotifiedOrdersCommandHandler(c.orderUoWFactory(), c.queue, c.clock, c.logger)
}

func (c *CompositionRoot) CreateDispatchNotificationCommandHandler() commands.DispatchNotificationCommandHandler {
	sender := c.smsSender()
	return commands.NewDispatchNotificationCommandHandler(
		commands.NewNotifyOrderCreatedCommandHandler(c.fullUoWFactory(), sender, c.metrics, c.clock, c.logger),
		commands.NewNotifyOrderStatusChangedCommandHandler(c.fullUoWFactory(), sender, c.metrics, c.logger),
		c.deduplicator(),
		commands.DefaultClaimTTL,
		c.logger,
	)
}

// smsSender talks to Africa's Talking when an API key is configured and only
// logs messages otherwise.
func (c *CompositionRoot) smsSender() ports.SMSSender {
	if c.cfg.ATAPIKey == "" {
		return sms.NewLogSender(c.logger)
	}
	return sms.NewAfricasTalkingSender(sms.Config{
		Username: c.cfg.ATUsername,
		APIKey:   c.cfg.ATAPIKey,
		SenderID: c.cfg.ATSenderID,
		Sandbox:  c.cfg.ATSandbox,
	}, c.logger)
}

func (c *CompositionRoot) deduplicator() ports.TaskDeduplicator {
	if c.cfg.RedisAddr == "" {
		return inprocess.NewDeduplicator(c.clock)
	}
	if c.redisDedup == nil {
		c.redisDedup = redis_out.NewDeduplicator(redis_out.NewClient(c.cfg.RedisAddr), ServiceName)
	}
	return c.redisDedup
}

type FuncCustomerUoWFactory func() commands.CustomerUoW

func (f FuncCustomerUoWFactory) Create() commands.CustomerUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
