// Package services holds domain services that do not belong to a single
// aggregate.
//
// UniqueCodeGenerator draws random customer codes and order numbers and
// retries an insert with exponential backoff while the store reports a
// collision. The store's unique constraint is the authoritative collision
// detector; the generator only bounds how many times a caller tries again.
package services
