// Package order provides the Order aggregate of the order ledger.
//
// The package includes:
//   - Order: identity, amounts, notes, status and SMS delivery flags
//   - Status: the lifecycle state machine and its transition table
//   - Number: the human facing order number (ORD + YYYYMMDD + 4 digits)
//   - SameStatusPolicy: how a status update to the current status is treated
//
// Key business rules:
//   - Orders start pending with sms_sent unset
//   - Amount is an exact decimal greater than 0, quantity an integer greater than 0
//   - total_amount is amount * quantity
//   - update_status fails with InvalidTransitionError outside the table
//   - Cancel fails with CannotCancelError unless the order is pending or processing
//   - MarkDelivered is a soft operation that reports false instead of failing
package order
