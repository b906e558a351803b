package http

import (
	"net/http"
	"strings"

	"savannah/internal/core/application/usecases/commands"
	"savannah/internal/core/application/usecases/queries"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders. A missing quantity means one.
func (s *Server) CreateOrder(c echo.Context) error {
	var body NewOrder
	if err := s.bind(c, &body); err != nil {
		return err
	}

	customerID, err := kernel.UUIDFromString(body.CustomerID)
	if err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("customer_id", err))
	}
	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	cmd, err := commands.NewCreateOrderCommand(customerID, body.Item, body.Amount, quantity, body.Notes)
	if err != nil {
		return s.fail(c, err)
	}
	created, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "create_order", "order_id", created.ID().String(), "order_number", created.Number().String())
	return c.JSON(http.StatusCreated, orderFromDomain(created))
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(c echo.Context) error {
	offset, limit, err := queryPage(c)
	if err != nil {
		return s.fail(c, err)
	}
	status, err := queryOptionalStatus(c, "status")
	if err != nil {
		return s.fail(c, err)
	}
	customerID, err := queryOptionalUUID(c, "customer_id")
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewListOrdersQuery(offset, limit, status, customerID)
	if err != nil {
		return s.fail(c, err)
	}
	page, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderPage{
		Count:   page.Total,
		Offset:  page.Page.Offset,
		Limit:   page.Page.Limit,
		Results: ordersFromReadModel(page.Orders),
	})
}

// SearchOrders handles GET /api/v1/orders/search.
func (s *Server) SearchOrders(c echo.Context) error {
	term, err := queryString(c, "q")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewSearchOrdersQuery(term)
	if err != nil {
		return s.fail(c, err)
	}

	found, err := s.h.SearchOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, ordersFromReadModel(found))
}

// GetOrderAnalytics handles GET /api/v1/orders/analytics.
func (s *Server) GetOrderAnalytics(c echo.Context) error {
	start, err := queryOptionalTime(c, "start_date", false)
	if err != nil {
		return s.fail(c, err)
	}
	end, err := queryOptionalTime(c, "end_date", true)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetOrderAnalyticsQuery(start, end)
	if err != nil {
		return s.fail(c, err)
	}
	summary, err := s.h.OrderAnalytics.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, analyticsFromReadModel(summary))
}

// GetOrdersByCustomer handles GET /api/v1/orders/by-customer.
func (s *Server) GetOrdersByCustomer(c echo.Context) error {
	customerID, err := queryOptionalUUID(c, "customer_id")
	if err != nil {
		return s.fail(c, err)
	}
	if customerID == nil {
		return s.fail(c, errs.NewValueIsRequiredError("customer_id"))
	}

	query, err := queries.NewGetOrdersByCustomerQuery(*customerID)
	if err != nil {
		return s.fail(c, err)
	}
	group, err := s.h.OrdersByCustomer.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, OrdersByCustomer{
		CustomerID:  group.CustomerID.String(),
		TotalOrders: group.TotalOrders,
		TotalSpent:  group.TotalSpent,
		Orders:      ordersFromReadModel(group.Orders),
	})
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	found, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	detail := OrderDetail{
		Order:    orderFromReadModel(found.OrderResponse),
		Customer: customerFromReadModel(found.Customer),
	}
	detail.CanBeCancelled = found.CanBeCancelled
	return c.JSON(http.StatusOK, detail)
}

// UpdateOrder handles PATCH /api/v1/orders/{id}.
func (s *Server) UpdateOrder(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body OrderPatch
	if err = s.bind(c, &body); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderCommand(id, order.Patch{
		Item:     body.Item,
		Amount:   body.Amount,
		Quantity: body.Quantity,
		Notes:    body.Notes,
	})
	if err != nil {
		return s.fail(c, err)
	}
	updated, err := s.h.UpdateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "update_order", "order_id", id.String())
	return c.JSON(http.StatusOK, orderFromDomain(updated))
}

// DeleteOrder handles DELETE /api/v1/orders/{id}.
func (s *Server) DeleteOrder(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewDeleteOrderCommand(id)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.DeleteOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "delete_order", "order_id", id.String())
	return noContent(c)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/{id}/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body StatusChange
	if err = s.bind(c, &body); err != nil {
		return err
	}
	status, err := order.ParseStatus(strings.ToLower(strings.TrimSpace(body.Status)))
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(id, status)
	if err != nil {
		return s.fail(c, err)
	}
	updated, err := s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "update_order_status", "order_id", id.String(), "status", status.String())
	return c.JSON(http.StatusOK, orderFromDomain(updated))
}

// CancelOrder handles POST /api/v1/orders/{id}/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return s.fail(c, err)
	}

	cancelled, err := s.h.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "cancel_order", "order_id", id.String())
	return c.JSON(http.StatusOK, orderFromDomain(cancelled))
}

// MarkOrderDelivered handles POST /api/v1/orders/{id}/deliver. An order that
// cannot reach delivered answers 200 with delivered=false.
func (s *Server) MarkOrderDelivered(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewMarkOrderDeliveredCommand(id)
	if err != nil {
		return s.fail(c, err)
	}

	delivered, err := s.h.MarkDelivered.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "mark_order_delivered", "order_id", id.String(), "delivered", delivered)
	return c.JSON(http.StatusOK, Delivered{Delivered: delivered})
}

// ResendOrderSMS handles POST /api/v1/orders/{id}/resend-sms.
func (s *Server) ResendOrderSMS(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewResendNotificationCommand(id)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.h.ResendSMS.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	s.logMutation(c, "resend_sms", "order_id", id.String())
	return c.JSON(http.StatusAccepted, Accepted{Message: "SMS notification queued"})
}
