// Package customerrepo persists customer aggregates with GORM.
package customerrepo

import (
	"time"

	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

const (
	CodeConstraint  = "customers_code_key"
	EmailConstraint = "customers_email_key"
)

// CustomerDTO is the row of the customers table.
type CustomerDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code        string    `gorm:"type:varchar(10);not null;uniqueIndex:customers_code_key"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Email       *string   `gorm:"type:varchar(254);uniqueIndex:customers_email_key"`
	PhoneNumber string    `gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (CustomerDTO) TableName() string {
	return "customers"
}

func fromDomain(c *customer.Customer) CustomerDTO {
	return CustomerDTO{
		ID:          c.ID().Bytes(),
		Code:        c.Code().String(),
		Name:        c.Name(),
		Email:       c.Email(),
		PhoneNumber: c.PhoneNumber().String(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

// ToDomain rebuilds the aggregate from a row. Read models reuse it.
func ToDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	code, err := customer.ParseCode(dto.Code)
	if err != nil {
		return nil, err
	}

	phone, err := kernel.NewPhoneNumber(dto.PhoneNumber)
	if err != nil {
		return nil, err
	}

	return customer.RestoreCustomer(id, code, dto.Name, dto.Email, phone, dto.CreatedAt, dto.UpdatedAt)
}
