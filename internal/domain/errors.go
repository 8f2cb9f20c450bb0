package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount       = errors.New("amount must be a positive number of cents")
	ErrInvalidMovementType = errors.New("movement type must be DEPOSIT or WITHDRAWAL")
	ErrInvalidPagination   = errors.New("limit must be > 0 and offset must be >= 0")

	// Ledger errors
	ErrInsufficientFunds = errors.New("insufficient funds for this movement")
	ErrMovementNotFound  = errors.New("movement not found")

	// ErrLedgerCorrupted indicates an idempotency key that resolves to a
	// movement id absent from the log. It signals a bug, not a caller error.
	ErrLedgerCorrupted = errors.New("ledger corrupted: idempotency key points to a missing movement")
)
