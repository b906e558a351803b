// Package errs provides the error taxonomy shared by the customers and orders
// services. Every error kind follows the same shape:
//   - a sentinel (e.g. ErrObjectNotFound) usable with errors.Is
//   - a struct carrying the details of the failure
//   - constructors with and without a cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The optional cause is matchable with errors.Is as well, which lets command
// handlers attach operation specific sentinels (ErrCustomerNotFound,
// ErrAmountIsInvalid, ...) while adapters keep classifying by kind.
//
// Kinds:
//   - ObjectNotFoundError: an entity id or code did not resolve
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation
//   - ConflictError: a unique value is already taken
//   - InvalidTransitionError: an illegal order status change
//   - CannotCancelError: a refinement of InvalidTransitionError for cancel
//   - DependencyUnavailableError: the store or a collaborator is unreachable
package errs
