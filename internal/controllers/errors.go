// Package controllers holds the sentinel errors shared by every
// controller package. Handlers translate them to HTTP status codes with
// errors.Is, so controllers wrap them with %w and never touch fiber.
package controllers

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)
