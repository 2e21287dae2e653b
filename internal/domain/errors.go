package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a malformed or incomplete request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCartClosed is returned when a cart that was already checked out is modified.
	ErrCartClosed = errors.New("cart is not active")
	// ErrCartChanged is returned when a cart's lines or total moved while it was being checked out.
	ErrCartChanged = errors.New("cart changed during checkout")
	// ErrNotCustomizable is returned when a customization is attached to a product that does not take one.
	ErrNotCustomizable = errors.New("product is not customizable")
)
