package services

import (
	"errors"
	"fmt"
)

// Business-rule errors returned by the services. Controllers translate
// them to HTTP status codes; nothing in this package knows about HTTP.
var (
	// ErrValidation marks malformed input (empty item list, bad ids).
	ErrValidation = errors.New("invalid input")

	// ErrInvalidAddress is returned when a shipping address does not
	// exist, is soft-deleted, or belongs to another user.
	ErrInvalidAddress = errors.New("invalid shipping address")

	// ErrInvalidTransition is returned when an order's current status
	// does not allow the requested operation. No side effects occur.
	ErrInvalidTransition = errors.New("order status does not allow this operation")

	// ErrNotFound is returned when the target row does not exist or is
	// not visible to the caller.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrency is returned when a row changed between read and
	// write. The caller may retry the whole operation; services never
	// retry on their own.
	ErrConcurrency = errors.New("record was modified concurrently")

	// ErrEmailTaken is returned by registration for duplicate emails.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrBadCredentials is returned on login failure. Deliberately the
	// same for unknown email and wrong password.
	ErrBadCredentials = errors.New("invalid email or password")

	// ErrAccountLocked is returned when a locked user tries to log in.
	ErrAccountLocked = errors.New("account is locked")
)

// ProductUnavailableError identifies the offending product when an order
// references a product that does not exist or has been taken off sale.
type ProductUnavailableError struct {
	ProductID uint
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d does not exist or is no longer for sale", e.ProductID)
}

// InsufficientStockError identifies the product whose stock could not
// cover the requested quantity, with the quantity still available.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %d has insufficient stock: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
