// Package customer provides the Customer aggregate of the customer registry.
//
// Key business rules:
//   - A customer has an opaque id and a human facing Code ("CUST" + 6 digits)
//   - Name is required; email is optional and unique when present
//   - The phone number is stored normalized ("+" followed by 9 to 15 digits)
//   - Only name and phone number can change after registration
package customer
