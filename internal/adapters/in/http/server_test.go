package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "savannah/internal/adapters/in/http"
	"savannah/internal/core/application/usecases/commands"
	"savannah/internal/core/application/usecases/queries"
	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"
	"savannah/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "secret"

var now = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

type fakeHandler[In, Out any] func(ctx context.Context, in In) (Out, error)

func (f fakeHandler[In, Out]) Handle(ctx context.Context, in In) (Out, error) {
	return f(ctx, in)
}

type fakeExecutor[In any] func(ctx context.Context, in In) error

func (f fakeExecutor[In]) Handle(ctx context.Context, in In) error {
	return f(ctx, in)
}

func newEcho(t *testing.T, h httpin.Handlers) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = httpin.HTTPErrorHandler
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	httpin.RegisterHandlers(e, httpin.NewServer(h, "", logger), httpin.KeyAuth([]string{token}))
	return e
}

func do(e *echo.Echo, method, target, body string, authorized bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authorized {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func sampleCustomer(t *testing.T) *customer.Customer {
	t.Helper()
	code, err := customer.NewCode(1)
	require.NoError(t, err)
	phone, err := kernel.ParsePhoneNumber("0700123456", kernel.DefaultCountryCode)
	require.NoError(t, err)
	c, err := customer.NewCustomer(kernel.NewUUID(), code, "Jane Wanjiku", nil, phone, now)
	require.NoError(t, err)
	return c
}

func sampleOrder(t *testing.T, customerID kernel.UUID) *order.Order {
	t.Helper()
	number, err := order.NewNumber(now, 1)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), number, customerID, "Laptop", decimal.RequireFromString("999.99"), 2, "", now)
	require.NoError(t, err)
	return o
}

func TestRegisterCustomer_IsOpenAndReturnsCreated(t *testing.T) {
	created := sampleCustomer(t)
	var got commands.RegisterCustomerCommand
	e := newEcho(t, httpin.Handlers{
		RegisterCustomer: fakeHandler[commands.RegisterCustomerCommand, *customer.Customer](
			func(_ context.Context, cmd commands.RegisterCustomerCommand) (*customer.Customer, error) {
				got = cmd
				return created, nil
			}),
	})

	rec := do(e, http.MethodPost, "/api/v1/customers", `{"name":"Jane Wanjiku","phone_number":"0700123456"}`, false)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[httpin.Customer](t, rec)
	assert.Equal(t, created.ID().String(), body.ID)
	assert.Equal(t, created.Code().String(), body.Code)
	assert.Equal(t, "Jane Wanjiku", got.Name())
	assert.Equal(t, "+254700123456", got.PhoneNumber().String())
}

func TestRegisterCustomer_InvalidPhoneIsBadRequest(t *testing.T) {
	e := newEcho(t, httpin.Handlers{})

	rec := do(e, http.MethodPost, "/api/v1/customers", `{"name":"Jane","phone_number":"not a phone"}`, false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterCustomer_MalformedBody(t *testing.T) {
	e := newEcho(t, httpin.Handlers{})

	rec := do(e, http.MethodPost, "/api/v1/customers", `{"name":`, false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode[httpin.Error](t, rec).Message)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	e := newEcho(t, httpin.Handlers{})

	for _, target := range []string{"/api/v1/customers", "/api/v1/orders", "/api/v1/orders/analytics"} {
		rec := do(e, http.MethodGet, target, "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer wrong")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCustomer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", errs.NewObjectNotFoundError("customer_id", "x"), http.StatusNotFound},
		{"unavailable", errs.NewDependencyUnavailableError("postgres", errors.New("refused")), http.StatusServiceUnavailable},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(t, httpin.Handlers{
				GetCustomer: fakeHandler[queries.GetCustomerQuery, queries.CustomerResponse](
					func(context.Context, queries.GetCustomerQuery) (queries.CustomerResponse, error) {
						return queries.CustomerResponse{}, tt.err
					}),
			})

			rec := do(e, http.MethodGet, "/api/v1/customers/"+kernel.NewUUID().String(), "", true)

			assert.Equal(t, tt.code, rec.Code)
			body := decode[httpin.Error](t, rec)
			assert.Equal(t, tt.code, body.Code)
			if tt.code == http.StatusInternalServerError {
				assert.NotContains(t, body.Message, "boom")
			}
		})
	}
}

func TestGetCustomer_MalformedID(t *testing.T) {
	e := newEcho(t, httpin.Handlers{})

	rec := do(e, http.MethodGet, "/api/v1/customers/not-a-uuid", "", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCustomers_Paginates(t *testing.T) {
	var got queries.ListCustomersQuery
	e := newEcho(t, httpin.Handlers{
		ListCustomers: fakeHandler[queries.ListCustomersQuery, queries.ListCustomersResponse](
			func(_ context.Context, q queries.ListCustomersQuery) (queries.ListCustomersResponse, error) {
				got = q
				return queries.ListCustomersResponse{
					Customers: []queries.CustomerResponse{{ID: kernel.NewUUID(), Code: "CUST000001"}},
					Total:     41,
					Page:      q.Page(),
				}, nil
			}),
	})

	rec := do(e, http.MethodGet, "/api/v1/customers?offset=20&limit=10", "", true)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, queries.Page{Offset: 20, Limit: 10}, got.Page())
	page := decode[httpin.CustomerPage](t, rec)
	assert.EqualValues(t, 41, page.Count)
	assert.Len(t, page.Results, 1)

	rec = do(e, http.MethodGet, "/api/v1/customers?limit=500", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteCustomer_NoContent(t *testing.T) {
	id := kernel.NewUUID()
	var got kernel.UUID
	e := newEcho(t, httpin.Handlers{
		DeleteCustomer: fakeExecutor[commands.DeleteCustomerCommand](
			func(_ context.Context, cmd commands.DeleteCustomerCommand) error {
				got = cmd.CustomerID()
				return nil
			}),
	})

	rec := do(e, http.MethodDelete, "/api/v1/customers/"+id.String(), "", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, got)
}

func TestCreateOrder_DefaultsQuantity(t *testing.T) {
	owner := sampleCustomer(t)
	var got commands.CreateOrderCommand
	e := newEcho(t, httpin.Handlers{
		CreateOrder: fakeHandler[commands.CreateOrderCommand, *order.Order](
			func(_ context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
				got = cmd
				return sampleOrder(t, owner.ID()), nil
			}),
	})

	rec := do(e, http.MethodPost, "/api/v1/orders",
		`{"customer_id":"`+owner.ID().String()+`","item":"Laptop","amount":"999.99"}`, true)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, got.Quantity())
	assert.True(t, decimal.RequireFromString("999.99").Equal(got.Amount()))
	body := decode[httpin.Order](t, rec)
	assert.Equal(t, "pending", body.Status)
	assert.True(t, body.CanBeCancelled)
	assert.True(t, decimal.RequireFromString("1999.98").Equal(body.TotalAmount))
}

func TestCreateOrder_UnknownCustomerIsBadRequest(t *testing.T) {
	e := newEcho(t, httpin.Handlers{
		CreateOrder: fakeHandler[commands.CreateOrderCommand, *order.Order](
			func(context.Context, commands.CreateOrderCommand) (*order.Order, error) {
				return nil, errs.NewValueIsInvalidErrorWithCause("customer_id", commands.ErrCustomerNotFound)
			}),
	})

	rec := do(e, http.MethodPost, "/api/v1/orders",
		`{"customer_id":"`+kernel.NewUUID().String()+`","item":"Laptop","amount":10}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_NonPositiveAmount(t *testing.T) {
	e := newEcho(t, httpin.Handlers{})

	rec := do(e, http.MethodPost, "/api/v1/orders",
		`{"customer_id":"`+kernel.NewUUID().String()+`","item":"Laptop","amount":"0"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders_PassesFilters(t *testing.T) {
	customerID := kernel.NewUUID()
	var got queries.ListOrdersQuery
	e := newEcho(t, httpin.Handlers{
		ListOrders: fakeHandler[queries.ListOrdersQuery, queries.ListOrdersResponse](
			func(_ context.Context, q queries.ListOrdersQuery) (queries.ListOrdersResponse, error) {
				got = q
				return queries.ListOrdersResponse{Page: q.Page()}, nil
			}),
	})

	rec := do(e, http.MethodGet, "/api/v1/orders?status=SHIPPED&customer_id="+customerID.String(), "", true)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, got.Status())
	assert.Equal(t, order.Shipped, *got.Status())
	require.NotNil(t, got.CustomerID())
	assert.Equal(t, customerID, *got.CustomerID())
	page := decode[httpin.OrderPage](t, rec)
	assert.NotNil(t, page.Results)
	assert.Equal(t, queries.DefaultLimit, page.Limit)

	rec = do(e, http.MethodGet, "/api/v1/orders?status=lost", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatus_InvalidTransition(t *testing.T) {
	e := newEcho(t, httpin.Handlers{
		UpdateOrderStatus: fakeHandler[commands.UpdateOrderStatusCommand, *order.Order](
			func(context.Context, commands.UpdateOrderStatusCommand) (*order.Order, error) {
				return nil, errs.NewInvalidTransitionError("delivered", "pending")
			}),
	})

	rec := do(e, http.MethodPatch, "/api/v1/orders/"+kernel.NewUUID().String()+"/status", `{"status":"pending"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[httpin.Error](t, rec).Message, "delivered")
}

func TestCancelOrder_CannotCancel(t *testing.T) {
	e := newEcho(t, httpin.Handlers{
		CancelOrder: fakeHandler[commands.CancelOrderCommand, *order.Order](
			func(context.Context, commands.CancelOrderCommand) (*order.Order, error) {
				return nil, errs.NewCannotCancelError("shipped")
			}),
	})

	rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/cancel", "", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkOrderDelivered_ReportsOutcome(t *testing.T) {
	for _, delivered := range []bool{true, false} {
		e := newEcho(t, httpin.Handlers{
			MarkDelivered: fakeHandler[commands.MarkOrderDeliveredCommand, bool](
				func(context.Context, commands.MarkOrderDeliveredCommand) (bool, error) {
					return delivered, nil
				}),
		})

		rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/deliver", "", true)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, delivered, decode[httpin.Delivered](t, rec).Delivered)
	}
}

func TestResendOrderSMS_Accepted(t *testing.T) {
	e := newEcho(t, httpin.Handlers{
		ResendSMS: fakeExecutor[commands.ResendNotificationCommand](
			func(context.Context, commands.ResendNotificationCommand) error { return nil }),
	})

	rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/resend-sms", "", true)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestResendOrderSMS_QueueFull(t *testing.T) {
	e := newEcho(t, httpin.Handlers{
		ResendSMS: fakeExecutor[commands.ResendNotificationCommand](
			func(context.Context, commands.ResendNotificationCommand) error {
				return errs.NewDependencyUnavailableError("task_queue", nil)
			}),
	})

	rec := do(e, http.MethodPost, "/api/v1/orders/"+kernel.NewUUID().String()+"/resend-sms", "", true)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetOrdersByCustomer_RequiresCustomerID(t *testing.T) {
	e := newEcho(t, httpin.Handlers{})

	rec := do(e, http.MethodGet, "/api/v1/orders/by-customer", "", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderAnalytics_DateOnlyEndCoversDay(t *testing.T) {
	var got queries.GetOrderAnalyticsQuery
	e := newEcho(t, httpin.Handlers{
		OrderAnalytics: fakeHandler[queries.GetOrderAnalyticsQuery, queries.GetOrderAnalyticsResponse](
			func(_ context.Context, q queries.GetOrderAnalyticsQuery) (queries.GetOrderAnalyticsResponse, error) {
				got = q
				return queries.GetOrderAnalyticsResponse{
					Start:          q.Start(),
					End:            q.End(),
					OrdersByStatus: map[order.Status]int64{order.Pending: 3},
				}, nil
			}),
	})

	rec := do(e, http.MethodGet, "/api/v1/orders/analytics?start_date=2026-10-01&end_date=2026-10-17", "", true)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, got.End())
	assert.Equal(t, time.Date(2026, 10, 17, 23, 59, 59, 999999999, time.UTC), *got.End())
	body := decode[httpin.Analytics](t, rec)
	assert.EqualValues(t, 3, body.OrdersByStatus["pending"])
	require.NotNil(t, body.Period.StartDate)
	assert.Equal(t, "2026-10-01T00:00:00Z", *body.Period.StartDate)

	rec = do(e, http.MethodGet, "/api/v1/orders/analytics?start_date=2026-10-17&end_date=2026-10-01", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	e.GET("/health", httpin.HealthHandler(map[string]httpin.Pinger{
		"postgres": httpin.PingFunc(func(context.Context) error { return nil }),
	}))
	e.GET("/health-down", httpin.HealthHandler(map[string]httpin.Pinger{
		"postgres": httpin.PingFunc(func(context.Context) error { return nil }),
		"redis":    httpin.PingFunc(func(context.Context) error { return errors.New("refused") }),
	}))

	rec := do(e, http.MethodGet, "/health", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[httpin.Health](t, rec).Status)

	rec = do(e, http.MethodGet, "/health-down", "", false)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[httpin.Health](t, rec)
	assert.Equal(t, "ok", body.Checks["postgres"])
	assert.Equal(t, "refused", body.Checks["redis"])
}
