package http

import (
	"time"

	"savannah/internal/core/application/usecases/queries"
	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

type NewCustomer struct {
	Name        string  `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber string  `json:"phone_number"`
}

type CustomerPatch struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
}

type Customer struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Email       *string   `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CustomerPage struct {
	Count   int64      `json:"count"`
	Offset  int        `json:"offset"`
	Limit   int        `json:"limit"`
	Results []Customer `json:"results"`
}

type CustomerStats struct {
	Customer          Customer        `json:"customer"`
	TotalOrders       int64           `json:"total_orders"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// NewOrder accepts amount as a JSON string or number.
type NewOrder struct {
	CustomerID string          `json:"customer_id"`
	Item       string          `json:"item"`
	Amount     decimal.Decimal `json:"amount"`
	Quantity   *int            `json:"quantity"`
	Notes      string          `json:"notes"`
}

type OrderPatch struct {
	Item     *string          `json:"item"`
	Amount   *decimal.Decimal `json:"amount"`
	Quantity *int             `json:"quantity"`
	Notes    *string          `json:"notes"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type Order struct {
	ID             string          `json:"id"`
	OrderNumber    string          `json:"order_number"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name,omitempty"`
	Item           string          `json:"item"`
	Amount         decimal.Decimal `json:"amount"`
	Quantity       int             `json:"quantity"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes"`
	SMSSent        bool            `json:"sms_sent"`
	SMSSentAt      *time.Time      `json:"sms_sent_at"`
	CanBeCancelled bool            `json:"can_be_cancelled"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type OrderDetail struct {
	Order
	Customer Customer `json:"customer"`
}

type OrderPage struct {
	Count   int64   `json:"count"`
	Offset  int     `json:"offset"`
	Limit   int     `json:"limit"`
	Results []Order `json:"results"`
}

type OrdersByCustomer struct {
	CustomerID  string          `json:"customer_id"`
	TotalOrders int64           `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	Orders      []Order         `json:"orders"`
}

type Period struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type AnalyticsSummary struct {
	TotalOrders       int64           `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	RecentOrders      int64           `json:"recent_orders_7_days"`
}

type Analytics struct {
	Period         Period           `json:"period"`
	Summary        AnalyticsSummary `json:"summary"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
}

type Delivered struct {
	Delivered bool `json:"delivered"`
}

type Accepted struct {
	Message string `json:"message"`
}

func customerFromDomain(c *customer.Customer) Customer {
	return Customer{
		ID:          c.ID().String(),
		Code:        c.Code().String(),
		Name:        c.Name(),
		Email:       c.Email(),
		PhoneNumber: c.PhoneNumber().String(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func customerFromReadModel(c queries.CustomerResponse) Customer {
	return Customer{
		ID:          c.ID.String(),
		Code:        c.Code,
		Name:        c.Name,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func customersFromReadModel(in []queries.CustomerResponse) []Customer {
	out := make([]Customer, 0, len(in))
	for _, c := range in {
		out = append(out, customerFromReadModel(c))
	}
	return out
}

func orderFromDomain(o *order.Order) Order {
	return Order{
		ID:             o.ID().String(),
		OrderNumber:    o.Number().String(),
		CustomerID:     o.CustomerID().String(),
		Item:           o.Item(),
		Amount:         o.Amount(),
		Quantity:       o.Quantity(),
		TotalAmount:    o.TotalAmount(),
		Status:         o.Status().String(),
		Notes:          o.Notes(),
		SMSSent:        o.SMSSent(),
		SMSSentAt:      o.SMSSentAt(),
		CanBeCancelled: o.CanBeCancelled(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}

func orderFromReadModel(o queries.OrderResponse) Order {
	return Order{
		ID:             o.ID.String(),
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID.String(),
		CustomerName:   o.CustomerName,
		Item:           o.Item,
		Amount:         o.Amount,
		Quantity:       o.Quantity,
		TotalAmount:    o.TotalAmount,
		Status:         o.Status.String(),
		Notes:          o.Notes,
		SMSSent:        o.SMSSent,
		SMSSentAt:      o.SMSSentAt,
		CanBeCancelled: o.Status.CanBeCancelled(),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func ordersFromReadModel(in []queries.OrderResponse) []Order {
	out := make([]Order, 0, len(in))
	for _, o := range in {
		out = append(out, orderFromReadModel(o))
	}
	return out
}

func analyticsFromReadModel(a queries.GetOrderAnalyticsResponse) Analytics {
	byStatus := make(map[string]int64, len(a.OrdersByStatus))
	for status, count := range a.OrdersByStatus {
		byStatus[status.String()] = count
	}
	return Analytics{
		Period: Period{
			StartDate: formatOptionalTime(a.Start),
			EndDate:   formatOptionalTime(a.End),
		},
		Summary: AnalyticsSummary{
			TotalOrders:       a.TotalOrders,
			TotalRevenue:      a.TotalRevenue,
			AverageOrderValue: a.AverageOrderValue,
			RecentOrders:      a.RecentOrders,
		},
		OrdersByStatus: byStatus,
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
