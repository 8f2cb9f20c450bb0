package dto

import (
	"time"

	"github.com/iho/tinyledger/internal/domain"
)

// TransactionResponse represents a movement in API responses.
type TransactionResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description,omitempty"`
}

// TransactionFromDomain converts a domain movement to a response.
func TransactionFromDomain(m domain.Movement) TransactionResponse {
	return TransactionResponse{
		ID:          m.ID,
		Type:        string(m.Type),
		AmountCents: m.AmountCents,
		CreatedAt:   m.CreatedAt,
		Description: m.Description,
	}
}

// TransactionsFromDomain converts domain movements to responses.
func TransactionsFromDomain(movements []domain.Movement) []TransactionResponse {
	result := make([]TransactionResponse, len(movements))
	for i, m := range movements {
		result[i] = TransactionFromDomain(m)
	}
	return result
}

// ListTransactionsResponse represents a page of movement history.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Limit        *int                  `json:"limit,omitempty"`
	Offset       *int                  `json:"offset,omitempty"`
	Total        int                   `json:"total"`
}

// BalanceResponse represents the current balance and its read time.
type BalanceResponse struct {
	BalanceCents int64     `json:"balance_cents"`
	AsOf         time.Time `json:"as_of"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
