// Package sms implements ports.SMSSender. AfricasTalkingSender talks to the
// Africa's Talking messaging API; LogSender only logs and is used when no
// API key is configured.
package sms
