package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart indicates an order was requested with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidCart indicates the cart priced to a non-positive total.
	ErrInvalidCart = errors.New("invalid cart items")
	// ErrVerificationFailed indicates the payment signature did not match.
	ErrVerificationFailed = errors.New("invalid signature")
	// ErrDuplicateOrder indicates the order id is already in the ledger.
	ErrDuplicateOrder = errors.New("order already recorded")
	// ErrUnauthorized indicates a bad or missing operator key.
	ErrUnauthorized = errors.New("unauthorized")
)
