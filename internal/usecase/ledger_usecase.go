package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/tinyledger/internal/domain"
)

// LedgerUseCase orchestrates movement recording and read queries. It is
// the only component that touches the movement log, the balance tracker
// and the idempotency index. A single mutex serializes the whole
// mutation path: idempotency lookup, funds check, id assignment, log
// append, balance update and key registration happen as one indivisible
// step, so a withdrawal can never observe a stale balance and two
// requests with the same new key can never both append.
type LedgerUseCase struct {
	mu        sync.Mutex
	log       MovementLog
	balance   BalanceTracker
	index     IdempotencyIndex
	publisher EventPublisher

	// nextID is guarded by mu; ids are strictly increasing and never reused.
	nextID int64
}

// NewLedgerUseCase creates a new LedgerUseCase. publisher may be nil.
func NewLedgerUseCase(log MovementLog, balance BalanceTracker, index IdempotencyIndex, publisher EventPublisher) *LedgerUseCase {
	return &LedgerUseCase{
		log:       log,
		balance:   balance,
		index:     index,
		publisher: publisher,
	}
}

// RecordMovementInput represents input for recording a movement.
type RecordMovementInput struct {
	AmountCents    int64
	Type           domain.MovementType
	Description    string
	IdempotencyKey string
}

// Record validates and records one movement.
//
// If the idempotency key was seen before, the original movement is
// returned unchanged, with no new balance effect and no re-validation of
// funds; idempotency is key-based, not content-based. A withdrawal that
// would drive the balance negative fails with ErrInsufficientFunds and
// leaves the ledger untouched.
func (uc *LedgerUseCase) Record(ctx context.Context, input RecordMovementInput) (*domain.Movement, error) {
	if input.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidAmount, input.AmountCents)
	}
	if input.Type != domain.Deposit && input.Type != domain.Withdrawal {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMovementType, input.Type)
	}

	movement, replayed, err := uc.record(input)
	if err != nil {
		return nil, err
	}

	// Publishing happens outside the critical section; delivery is
	// best-effort and must not extend the serialized mutation path.
	if !replayed && uc.publisher != nil {
		uc.publisher.MovementRecorded(ctx, *movement)
	}

	return movement, nil
}

func (uc *LedgerUseCase) record(input RecordMovementInput) (*domain.Movement, bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if input.IdempotencyKey != "" {
		if id, ok := uc.index.Lookup(input.IdempotencyKey); ok {
			original, err := uc.log.Get(id)
			if err != nil {
				return nil, false, fmt.Errorf("%w: key %q resolves to id %d", domain.ErrLedgerCorrupted, input.IdempotencyKey, id)
			}
			return &original, true, nil
		}
	}

	if input.Type == domain.Withdrawal && uc.balance.Read()-input.AmountCents < 0 {
		return nil, false, domain.ErrInsufficientFunds
	}

	uc.nextID++
	movement := domain.Movement{
		ID:             uc.nextID,
		Type:           input.Type,
		AmountCents:    input.AmountCents,
		CreatedAt:      time.Now().UTC(),
		Description:    input.Description,
		IdempotencyKey: input.IdempotencyKey,
	}

	if err := uc.log.Append(movement); err != nil {
		return nil, false, err
	}

	uc.balance.Apply(movement.BalanceEffect())

	if movement.IdempotencyKey != "" {
		uc.index.Register(movement.IdempotencyKey, movement.ID)
	}

	return &movement, false, nil
}

// HistoryInput represents pagination for the movement history query.
// Nil means the parameter was not supplied.
type HistoryInput struct {
	Limit  *int
	Offset *int
}

// History returns movements sorted by creation time descending, ties
// broken by descending id so the order is total and deterministic.
// Offset past the end yields an empty slice, never an error.
func (uc *LedgerUseCase) History(ctx context.Context, input HistoryInput) ([]domain.Movement, error) {
	if input.Limit != nil && *input.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d", domain.ErrInvalidPagination, *input.Limit)
	}
	if input.Offset != nil && *input.Offset < 0 {
		return nil, fmt.Errorf("%w: offset %d", domain.ErrInvalidPagination, *input.Offset)
	}

	movements := uc.log.List()

	sort.Slice(movements, func(i, j int) bool {
		if movements[i].CreatedAt.Equal(movements[j].CreatedAt) {
			return movements[i].ID > movements[j].ID
		}
		return movements[i].CreatedAt.After(movements[j].CreatedAt)
	})

	offset := 0
	if input.Offset != nil {
		offset = *input.Offset
	}
	if offset >= len(movements) {
		return []domain.Movement{}, nil
	}
	movements = movements[offset:]

	if input.Limit != nil && *input.Limit < len(movements) {
		movements = movements[:*input.Limit]
	}

	return movements, nil
}

// Balance returns the current balance in cents and the time it was read.
func (uc *LedgerUseCase) Balance(ctx context.Context) (int64, time.Time) {
	return uc.balance.Read(), time.Now().UTC()
}
