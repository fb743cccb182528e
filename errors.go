package brokerage

import "errors"

// Sentinel errors for validation failures. Each is raised before any
// mutation: a failed call leaves the ledger and its file untouched.
var (
	// ErrInsufficientCash indicates a buy whose cost exceeds available cash.
	ErrInsufficientCash = errors.New("insufficient cash")
	// ErrNoPosition indicates a sell or close against a symbol not held.
	ErrNoPosition = errors.New("no position")
	// ErrOversell indicates a sell for more units than are held.
	ErrOversell = errors.New("cannot sell more than held")
	// ErrNoPrice indicates no current price could be resolved for a symbol.
	ErrNoPrice = errors.New("no price available")
	// ErrInvalidOrder indicates a malformed order request (empty symbol,
	// non-positive quantity or price).
	ErrInvalidOrder = errors.New("invalid order")
)
