package customerrepo

import (
	"context"
	"errors"

	"savannah/internal/adapters/out/postgres/pgerr"
	"savannah/internal/core/domain/model/customer"
	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/errs"

	"gorm.io/gorm"
)

var columns = pgerr.Columns{
	CodeConstraint:  "code",
	EmailConstraint: "email",
}

// GormCustomerRepository implements ports.CustomerRepository using GORM.
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Add inserts a new customer. Taken codes and emails surface as
// errs.ConflictError.
func (r *GormCustomerRepository) Add(ctx context.Context, aggregate *customer.Customer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return pgerr.Translate(r.db.WithContext(ctx).Create(&dto).Error, columns)
}

// Update writes the mutable columns of an existing customer.
func (r *GormCustomerRepository) Update(ctx context.Context, aggregate *customer.Customer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CustomerDTO{}).
		Where("id = ?", dto.ID).
		Select("name", "email", "phone_number", "updated_at").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Translate(result.Error, columns)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("customer", aggregate.ID().String())
	}
	return nil
}

func (r *GormCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CustomerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("customer", id.String())
		}
		return nil, pgerr.Translate(err, columns)
	}

	return ToDomain(dto)
}

// Delete removes the customer and its orders. The explicit order delete keeps
// the cascade independent of how the schema was created.
func (r *GormCustomerRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM orders WHERE customer_id = ?", id.Bytes()).Error; err != nil {
		return pgerr.Translate(err, columns)
	}

	result := db.Delete(&CustomerDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return pgerr.Translate(result.Error, columns)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("customer", id.String())
	}
	return nil
}

// EmailExists compares addresses case-insensitively.
func (r *GormCustomerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&CustomerDTO{}).
		Where("email = lower(?)", email).
		Count(&count).Error
	if err != nil {
		return false, pgerr.Translate(err, columns)
	}
	return count > 0, nil
}
