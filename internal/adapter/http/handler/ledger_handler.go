package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/iho/tinyledger/internal/adapter/http/dto"
	"github.com/iho/tinyledger/internal/adapter/http/middleware"
	"github.com/iho/tinyledger/internal/domain"
	"github.com/iho/tinyledger/internal/infrastructure/metrics"
	"github.com/iho/tinyledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Record(ctx context.Context, input usecase.RecordMovementInput) (*domain.Movement, error)
	History(ctx context.Context, input usecase.HistoryInput) ([]domain.Movement, error)
	Balance(ctx context.Context) (int64, time.Time)
}

// LedgerHandler handles ledger HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
	metrics  *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler. m may be nil in tests.
func NewLedgerHandler(ledgerUC LedgerService, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, metrics: m}
}

// RecordTransaction records a deposit or withdrawal.
func (h *LedgerHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(r.Header.Get(middleware.IdempotencyKeyHeader))
	if err != nil {
		h.countRejection(err)
		status := mapDomainError(err)
		writeError(w, status, "invalid transaction", errorMessage(err, status))

		return
	}

	movement, err := h.ledgerUC.Record(r.Context(), input)
	if err != nil {
		h.countRejection(err)
		status := mapDomainError(err)
		writeError(w, status, "failed to record transaction", errorMessage(err, status))

		return
	}

	if h.metrics != nil {
		h.metrics.MovementsRecorded.WithLabelValues(string(movement.Type)).Inc()
		balance, _ := h.ledgerUC.Balance(r.Context())
		h.metrics.BalanceCents.Set(float64(balance))
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(*movement))
}

// ListTransactions returns the movement history, most recent first.
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseOptionalIntQuery(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pagination parameters", err.Error())
		return
	}

	offset, err := parseOptionalIntQuery(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pagination parameters", err.Error())
		return
	}

	movements, err := h.ledgerUC.History(r.Context(), usecase.HistoryInput{Limit: limit, Offset: offset})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list transactions", errorMessage(err, status))

		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(movements),
		Limit:        limit,
		Offset:       offset,
		Total:        len(movements),
	})
}

// GetBalance returns the current balance.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, asOf := h.ledgerUC.Balance(r.Context())

	if h.metrics != nil {
		h.metrics.BalanceCents.Set(float64(balance))
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		BalanceCents: balance,
		AsOf:         asOf,
	})
}

func (h *LedgerHandler) countRejection(err error) {
	if h.metrics == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		h.metrics.MovementsRejected.WithLabelValues("insufficient_funds").Inc()
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidMovementType):
		h.metrics.MovementsRejected.WithLabelValues("invalid_input").Inc()
	default:
		h.metrics.MovementsRejected.WithLabelValues("internal").Inc()
	}
}
