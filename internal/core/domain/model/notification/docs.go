// Package notification models the work handed to the notification dispatcher:
// queue tasks for the "order created" and "order status changed" events and
// the SMS texts rendered for them.
package notification
