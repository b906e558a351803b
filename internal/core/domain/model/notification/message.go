package notification

import (
	"fmt"

	"savannah/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// CreatedMessage is sent once an order has been recorded.
func CreatedMessage(customerName, orderNumber, item string, totalAmount decimal.Decimal) string {
	return fmt.Sprintf("Hello %s! Your order %s for %s (Amount: %s) has been received.",
		customerName, orderNumber, item, totalAmount.StringFixed(2))
}

// StatusMessage returns the message for an order entering status. ok is false
// for statuses that are not notified.
func StatusMessage(orderNumber string, status order.Status) (message string, ok bool) {
	switch status {
	case order.Shipped:
		return fmt.Sprintf("Good news! Your order %s has been shipped and is on its way to you.", orderNumber), true
	case order.Delivered:
		return fmt.Sprintf("Your order %s has been delivered. Thank you for choosing us!", orderNumber), true
	case order.Cancelled:
		return fmt.Sprintf("Your order %s has been cancelled. If you have questions, please contact us.", orderNumber), true
	default:
		return "", false
	}
}
