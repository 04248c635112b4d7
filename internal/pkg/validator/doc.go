// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface. The go-playground v10
// implementation registers the account rules (password, username, phone_cm)
// and reports failures keyed by JSON field name.
package validator
