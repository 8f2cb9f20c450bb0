package dto

import (
	"github.com/iho/tinyledger/internal/domain"
	"github.com/iho/tinyledger/internal/money"
	"github.com/iho/tinyledger/internal/usecase"
)

// TransactionRequest represents a request to record a movement. The
// amount arrives as a decimal string of cents and is rounded to an
// integral cent value.
type TransactionRequest struct {
	AmountCents string `json:"amount_cents"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
}

// ToUseCaseInput converts to use case input. The idempotency key is
// carried in a header rather than the body, so it is passed separately.
func (r *TransactionRequest) ToUseCaseInput(idempotencyKey string) (usecase.RecordMovementInput, error) {
	cents, err := money.ParseCents(r.AmountCents)
	if err != nil {
		return usecase.RecordMovementInput{}, err
	}

	movementType, err := domain.ParseMovementType(r.Type)
	if err != nil {
		return usecase.RecordMovementInput{}, err
	}

	return usecase.RecordMovementInput{
		AmountCents:    cents,
		Type:           movementType,
		Description:    r.Description,
		IdempotencyKey: idempotencyKey,
	}, nil
}
