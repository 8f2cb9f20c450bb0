package domain

import (
	"fmt"
	"strings"
	"time"
)

// MovementType distinguishes money entering the ledger from money leaving it.
type MovementType string

const (
	Deposit    MovementType = "DEPOSIT"
	Withdrawal MovementType = "WITHDRAWAL"
)

// ParseMovementType parses a movement type string, case-insensitively.
func ParseMovementType(s string) (MovementType, error) {
	switch MovementType(strings.ToUpper(strings.TrimSpace(s))) {
	case Deposit:
		return Deposit, nil
	case Withdrawal:
		return Withdrawal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMovementType, s)
	}
}

// Sign returns the balance effect of the type: +1 for deposits, -1 for withdrawals.
func (t MovementType) Sign() int64 {
	if t == Withdrawal {
		return -1
	}
	return 1
}

// Movement is a single accepted deposit or withdrawal. Movements are
// immutable once recorded and are never updated or deleted.
type Movement struct {
	ID             int64
	Type           MovementType
	AmountCents    int64
	CreatedAt      time.Time
	Description    string
	IdempotencyKey string
}

// BalanceEffect returns the signed amount this movement applies to the balance.
func (m Movement) BalanceEffect() int64 {
	return m.Type.Sign() * m.AmountCents
}
