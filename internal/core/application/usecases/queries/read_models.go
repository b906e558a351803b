package queries

import (
	"strings"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerResponse is the read model of a customer.
type CustomerResponse struct {
	ID          kernel.UUID
	Code        string
	Name        string
	Email       *string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderResponse is the read model of an order. TotalAmount is derived.
type OrderResponse struct {
	ID           kernel.UUID
	OrderNumber  string
	CustomerID   kernel.UUID
	CustomerName string
	Item         string
	Amount       decimal.Decimal
	Quantity     int
	TotalAmount  decimal.Decimal
	Status       order.Status
	Notes        string
	SMSSent      bool
	SMSSentAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const customerColumns = `
	c.id,
	c.code,
	c.name,
	c.email,
	c.phone_number,
	c.created_at,
	c.updated_at`

const orderColumns = `
	o.id,
	o.order_number,
	o.customer_id,
	c.name AS customer_name,
	o.item,
	o.amount,
	o.quantity,
	o.status,
	o.notes,
	o.sms_sent,
	o.sms_sent_at,
	o.created_at,
	o.updated_at`

type customerRow struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Email       *string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r customerRow) toResponse() (CustomerResponse, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return CustomerResponse{}, err
	}
	return CustomerResponse{
		ID:          id,
		Code:        r.Code,
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func customerResponses(rows []customerRow) ([]CustomerResponse, error) {
	result := make([]CustomerResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := row.toResponse()
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, nil
}

type orderRow struct {
	ID           uuid.UUID
	OrderNumber  string
	CustomerID   uuid.UUID
	CustomerName string
	Item         string
	Amount       decimal.Decimal
	Quantity     int
	Status       string
	Notes        string
	SMSSent      bool       `gorm:"column:sms_sent"`
	SMSSentAt    *time.Time `gorm:"column:sms_sent_at"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r orderRow) toResponse() (OrderResponse, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return OrderResponse{}, err
	}
	customerID, err := kernel.UUIDFromBytes(r.CustomerID[:])
	if err != nil {
		return OrderResponse{}, err
	}
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return OrderResponse{}, err
	}
	return OrderResponse{
		ID:           id,
		OrderNumber:  r.OrderNumber,
		CustomerID:   customerID,
		CustomerName: r.CustomerName,
		Item:         r.Item,
		Amount:       r.Amount,
		Quantity:     r.Quantity,
		TotalAmount:  order.TotalAmount(r.Amount, r.Quantity),
		Status:       status,
		Notes:        r.Notes,
		SMSSent:      r.SMSSent,
		SMSSentAt:    r.SMSSentAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}

func orderResponses(rows []orderRow) ([]OrderResponse, error) {
	result := make([]OrderResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := row.toResponse()
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// averageOf divides total by count rounded to cents, zero for no rows.
func averageOf(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(count), 2)
}
