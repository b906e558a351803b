// Package orderrepo persists order aggregates with GORM.
package orderrepo

import (
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	NumberConstraint   = "orders_order_number_key"
	CustomerConstraint = "orders_customer_id_fkey"
)

// OrderDTO is the row of the orders table. Status is stored by name.
type OrderDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderNumber string          `gorm:"type:varchar(20);not null;uniqueIndex:orders_order_number_key"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Item        string          `gorm:"type:varchar(200);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Quantity    int             `gorm:"not null;default:1"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	Notes       string          `gorm:"type:text;not null;default:''"`
	SMSSent     bool            `gorm:"column:sms_sent;not null;default:false"`
	SMSSentAt   *time.Time      `gorm:"column:sms_sent_at"`
	CreatedAt   time.Time       `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:          o.ID().Bytes(),
		OrderNumber: o.Number().String(),
		CustomerID:  o.CustomerID().Bytes(),
		Item:        o.Item(),
		Amount:      o.Amount(),
		Quantity:    o.Quantity(),
		Status:      o.Status().String(),
		Notes:       o.Notes(),
		SMSSent:     o.SMSSent(),
		SMSSentAt:   o.SMSSentAt(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

// ToDomain rebuilds the aggregate from a row. Read models reuse it.
func ToDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	number, err := order.ParseNumber(dto.OrderNumber)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:         id,
		Number:     number,
		CustomerID: customerID,
		Item:       dto.Item,
		Amount:     dto.Amount,
		Quantity:   dto.Quantity,
		Status:     status,
		Notes:      dto.Notes,
		SMSSent:    dto.SMSSent,
		SMSSentAt:  dto.SMSSentAt,
		CreatedAt:  dto.CreatedAt,
		UpdatedAt:  dto.UpdatedAt,
	})
}
