package http

import (
	"context"
	"log/slog"
	"net/http"

	"savannah/internal/core/application/usecases/commands"
	"savannah/internal/core/application/usecases/queries"
	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Handler is satisfied by every command and query handler that returns a
// value.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// Executor is satisfied by command handlers that only report an error.
type Executor[In any] interface {
	Handle(ctx context.Context, in In) error
}

// Handlers groups the use cases reachable over HTTP.
type Handlers struct {
	RegisterCustomer Handler[commands.RegisterCustomerCommand, *customer.Customer]
	UpdateCustomer   Handler[commands.UpdateCustomerCommand, *customer.Customer]
	DeleteCustomer   Executor[commands.DeleteCustomerCommand]

	CreateOrder       Handler[commands.CreateOrderCommand, *order.Order]
	UpdateOrder       Handler[commands.UpdateOrderCommand, *order.Order]
	UpdateOrderStatus Handler[commands.UpdateOrderStatusCommand, *order.Order]
	CancelOrder       Handler[commands.CancelOrderCommand, *order.Order]
	MarkDelivered     Handler[commands.MarkOrderDeliveredCommand, bool]
	DeleteOrder       Executor[commands.DeleteOrderCommand]
	ResendSMS         Executor[commands.ResendNotificationCommand]

	GetCustomer       Handler[queries.GetCustomerQuery, queries.CustomerResponse]
	GetCustomerByCode Handler[queries.GetCustomerByCodeQuery, queries.CustomerResponse]
	ListCustomers     Handler[queries.ListCustomersQuery, queries.ListCustomersResponse]
	SearchCustomers   Handler[queries.SearchCustomersQuery, []queries.CustomerResponse]
	CustomerOrders    Handler[queries.GetCustomerOrdersQuery, []queries.OrderResponse]
	CustomerStats     Handler[queries.GetCustomerStatsQuery, queries.GetCustomerStatsResponse]

	GetOrder         Handler[queries.GetOrderQuery, queries.GetOrderResponse]
	ListOrders       Handler[queries.ListOrdersQuery, queries.ListOrdersResponse]
	SearchOrders     Handler[queries.SearchOrdersQuery, []queries.OrderResponse]
	OrdersByCustomer Handler[queries.GetOrdersByCustomerQuery, queries.GetOrdersByCustomerResponse]
	OrderAnalytics   Handler[queries.GetOrderAnalyticsQuery, queries.GetOrderAnalyticsResponse]
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h           Handlers
	countryCode string
	logger      *slog.Logger
}

func NewServer(h Handlers, countryCode string, logger *slog.Logger) *Server {
	if countryCode == "" {
		countryCode = kernel.DefaultCountryCode
	}
	return &Server{
		h:           h,
		countryCode: countryCode,
		logger:      logger.With("component", "http_server"),
	}
}

// RegisterHandlers mounts the API under /api/v1. Middlewares run in order
// on the group only.
func RegisterHandlers(e *echo.Echo, s *Server, middlewares ...echo.MiddlewareFunc) {
	g := e.Group("/api/v1", middlewares...)

	g.POST("/customers", s.RegisterCustomer)
	g.GET("/customers", s.ListCustomers)
	g.GET("/customers/search", s.SearchCustomers)
	g.GET("/customers/code/:code", s.GetCustomerByCode)
	g.GET("/customers/:id", s.GetCustomer)
	g.GET("/customers/:id/orders", s.GetCustomerOrders)
	g.GET("/customers/:id/stats", s.GetCustomerStats)
	g.PATCH("/customers/:id", s.UpdateCustomer)
	g.DELETE("/customers/:id", s.DeleteCustomer)

	g.POST("/orders", s.CreateOrder)
	g.GET("/orders", s.ListOrders)
	g.GET("/orders/search", s.SearchOrders)
	g.GET("/orders/analytics", s.GetOrderAnalytics)
	g.GET("/orders/by-customer", s.GetOrdersByCustomer)
	g.GET("/orders/:id", s.GetOrder)
	g.PATCH("/orders/:id", s.UpdateOrder)
	g.DELETE("/orders/:id", s.DeleteOrder)
	g.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	g.POST("/orders/:id/cancel", s.CancelOrder)
	g.POST("/orders/:id/deliver", s.MarkOrderDelivered)
	g.POST("/orders/:id/resend-sms", s.ResendOrderSMS)
}

func (s *Server) bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return nil
}

func (s *Server) logMutation(c echo.Context, action string, attrs ...any) {
	attrs = append([]any{"action", action, "principal", principal(c)}, attrs...)
	s.logger.InfoContext(c.Request().Context(), "mutation", attrs...)
}

func noContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
