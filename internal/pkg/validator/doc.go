// Package validator provides a small validation abstraction for request and
// command input structs.
//
// Callers depend on the Validator interface. The go-playground/validator v10
// implementation registers English translations plus the "commit" (40 hex
// characters) tag.
package validator
