// Package kernel holds the value objects shared by the customer, order and
// notification models:
//   - UUID: opaque identifier wrapping github.com/google/uuid
//   - PhoneNumber: a normalized "+digits" number, plus NormalizePhone
//
// Phone normalization is a single-country best effort. Digits are kept, a
// leading trunk prefix 0 becomes the configured country code (254 by default)
// and a "+" is prepended. Local numbers of other countries are therefore
// rewritten incorrectly; callers that need international parsing must send
// numbers already prefixed with "+".
package kernel
