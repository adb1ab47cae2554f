package services

import "errors"

// Core failure kinds. Handlers map these to HTTP responses; the ledger code
// only signals the kind.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidState      = errors.New("invalid state")
)
