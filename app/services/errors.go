package services

import "errors"

// Domain error taxonomy. Controllers map these onto HTTP statuses;
// anything unrecognised is logged and surfaced as a generic 500.
var (
	// ErrEmptyOrder rejects an order created with no line items.
	ErrEmptyOrder = errors.New("order must contain at least one item")

	// ErrInvalidOrderLine rejects a line item with a non-positive quantity.
	ErrInvalidOrderLine = errors.New("order line quantity must be positive")

	// ErrStatusFlags rejects a status update that supplies neither the
	// paid nor the expired signal.
	ErrStatusFlags = errors.New("either is_paid or is_expired must be set")

	// ErrUnauthorized means the caller lacks rights over the target
	// resource (e.g. tracking another user's order).
	ErrUnauthorized = errors.New("caller is not authorized for this resource")

	// ErrForbidden means the operation requires an administrator.
	ErrForbidden = errors.New("administrator role required")

	// ErrBadCredentials covers both unknown email and wrong password, so
	// login failures do not reveal which part was wrong.
	ErrBadCredentials = errors.New("invalid email or password")

	// ErrAccountBlocked rejects blocked accounts at login and resolution.
	ErrAccountBlocked = errors.New("account is blocked")

	// ErrNegativePrice rejects catalog items priced below zero.
	ErrNegativePrice = errors.New("price must not be negative")
)
