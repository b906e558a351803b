package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"savannah/internal/core/domain/model/kernel"
	"savannah/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// maxAmount is the first value that no longer fits numeric(10,2).
	maxAmount = decimal.New(1, 8)
)

// Order is the aggregate root of the order ledger. It owns the status state
// machine and the SMS delivery flags.
//
// Invariants:
//   - amount is strictly positive with at most 2 decimal places
//   - quantity is strictly positive
//   - status only moves along the transition table (see Status)
//   - sms_sent and sms_sent_at change only through MarkSMSSent
type Order struct {
	id         kernel.UUID
	number     Number
	customerID kernel.UUID
	item       string
	amount     decimal.Decimal
	quantity   int
	status     Status
	notes      string
	smsSent    bool
	smsSentAt  *time.Time
	createdAt  time.Time
	updatedAt  time.Time

	isConstructed bool
}

// Patch carries the detail fields an order update may change. Nil fields are
// left untouched. Status has its own operations.
type Patch struct {
	Item     *string
	Amount   *decimal.Decimal
	Quantity *int
	Notes    *string
}

func (p Patch) IsEmpty() bool {
	return p.Item == nil && p.Amount == nil && p.Quantity == nil && p.Notes == nil
}

// Snapshot is the persisted state RestoreOrder rebuilds an order from.
type Snapshot struct {
	ID         kernel.UUID
	Number     Number
	CustomerID kernel.UUID
	Item       string
	Amount     decimal.Decimal
	Quantity   int
	Status     Status
	Notes      string
	SMSSent    bool
	SMSSentAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrder creates a pending order with sms_sent unset.
//
// Example:
//
//	number, _ := order.NewNumber(now, 4821)
//	o, err := order.NewOrder(kernel.NewUUID(), number, customerID, "Laptop",
//	    decimal.RequireFromString("999.99"), 1, "", now)
func NewOrder(
	id kernel.UUID,
	number Number,
	customerID kernel.UUID,
	item string,
	amount decimal.Decimal,
	quantity int,
	notes string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerID(customerID),
		o.setItem(item),
		o.setAmount(amount),
		o.setQuantity(quantity),
	); err != nil {
		return nil, err
	}
	o.notes = strings.TrimSpace(notes)

	return o, nil
}

// RestoreOrder rebuilds a persisted order, validating it like NewOrder.
func RestoreOrder(s Snapshot) (*Order, error) {
	o, err := NewOrder(s.ID, s.Number, s.CustomerID, s.Item, s.Amount, s.Quantity, s.Notes, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = s.Status.Validate(); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.smsSent = s.SMSSent
	if s.SMSSentAt != nil {
		sentAt := *s.SMSSentAt
		o.smsSentAt = &sentAt
	}
	o.updatedAt = s.UpdatedAt
	return o, nil
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() Number {
	return o.number
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) Item() string {
	return o.item
}

func (o *Order) Amount() decimal.Decimal {
	return o.amount
}

func (o *Order) Quantity() int {
	return o.quantity
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Notes() string {
	return o.notes
}

func (o *Order) SMSSent() bool {
	return o.smsSent
}

func (o *Order) SMSSentAt() *time.Time {
	if o.smsSentAt == nil {
		return nil
	}
	sentAt := *o.smsSentAt
	return &sentAt
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// TotalAmount is amount * quantity, computed exactly.
func (o *Order) TotalAmount() decimal.Decimal {
	return TotalAmount(o.amount, o.quantity)
}

// CanBeCancelled reports whether Cancel would succeed.
func (o *Order) CanBeCancelled() bool {
	return o.status.CanBeCancelled()
}

// UpdateStatus moves the order to next. changed is false when the policy
// accepted a same status request and nothing was modified.
func (o *Order) UpdateStatus(next Status, policy SameStatusPolicy, now time.Time) (bool, error) {
	status, changed, err := o.status.TransitionTo(next, policy)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	o.status = status
	o.updatedAt = now
	return true, nil
}

// Cancel moves a pending or processing order to cancelled. Any other status
// fails with CannotCancelError.
func (o *Order) Cancel(now time.Time) error {
	if !o.status.CanBeCancelled() {
		return errs.NewCannotCancelError(o.status.String())
	}

	o.status = Cancelled
	o.updatedAt = now
	return nil
}

// MarkDelivered moves a shipped order to delivered and reports true. For any
// other status it reports false and leaves the order untouched.
func (o *Order) MarkDelivered(now time.Time) bool {
	if o.status != Shipped {
		return false
	}

	o.status = Delivered
	o.updatedAt = now
	return true
}

// MarkSMSSent records a successful creation notification.
func (o *Order) MarkSMSSent(at time.Time) {
	o.smsSent = true
	o.smsSentAt = &at
	o.updatedAt = at
}

// Update applies the present fields of patch. Nothing changes when any field
// is invalid.
func (o *Order) Update(patch Patch, now time.Time) error {
	next := *o
	var errItem, errAmount, errQuantity error
	if patch.Item != nil {
		errItem = next.setItem(*patch.Item)
	}
	if patch.Amount != nil {
		errAmount = next.setAmount(*patch.Amount)
	}
	if patch.Quantity != nil {
		errQuantity = next.setQuantity(*patch.Quantity)
	}
	if err := errors.Join(errItem, errAmount, errQuantity); err != nil {
		return err
	}
	if patch.Notes != nil {
		next.notes = strings.TrimSpace(*patch.Notes)
	}

	if !patch.IsEmpty() {
		next.updatedAt = now
	}
	*o = next
	return nil
}

// TotalAmount multiplies amount by quantity without floating point rounding.
func TotalAmount(amount decimal.Decimal, quantity int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(quantity)))
}

// ValidateAmount checks that amount is positive, has at most 2 decimal places
// and fits the stored precision.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	if !amount.Equal(amount.Truncate(2)) {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s has more than 2 decimal places", amount))
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return errs.NewValueIsOutOfRangeError("amount", amount, "0.01", "99999999.99")
	}
	return nil
}

// ValidateQuantity checks that quantity is positive.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number Number) error {
	if number.IsEmpty() {
		return errs.NewValueIsRequiredError("order_number")
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer_id", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setItem(item string) error {
	item = strings.TrimSpace(item)
	if item == "" {
		return errs.NewValueIsRequiredError("item")
	}
	o.item = item
	return nil
}

func (o *Order) setAmount(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	o.amount = amount
	return nil
}

func (o *Order) setQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	o.quantity = quantity
	return nil
}
