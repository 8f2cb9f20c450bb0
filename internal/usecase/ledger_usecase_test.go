package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iho/tinyledger/internal/adapter/repository/memory"
	"github.com/iho/tinyledger/internal/domain"
	"github.com/iho/tinyledger/internal/usecase"
	"github.com/iho/tinyledger/internal/usecase/mocks"
)

func newEngine() (*usecase.LedgerUseCase, *memory.MovementLog, *memory.BalanceTracker) {
	log := memory.NewMovementLog()
	balance := memory.NewBalanceTracker()
	index := memory.NewIdempotencyIndex()
	return usecase.NewLedgerUseCase(log, balance, index, nil), log, balance
}

func intPtr(v int) *int { return &v }

func TestRecord_DepositAndWithdrawal(t *testing.T) {
	ctx := context.Background()
	uc, log, balance := newEngine()

	deposit, err := uc.Record(ctx, usecase.RecordMovementInput{
		AmountCents: 5000,
		Type:        domain.Deposit,
		Description: "init",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deposit.ID != 1 || deposit.AmountCents != 5000 {
		t.Fatalf("expected {id:1, amount:5000}, got %+v", deposit)
	}
	if got, _ := uc.Balance(ctx); got != 5000 {
		t.Fatalf("expected balance 5000, got %d", got)
	}

	withdrawal, err := uc.Record(ctx, usecase.RecordMovementInput{
		AmountCents: 3000,
		Type:        domain.Withdrawal,
		Description: "spend",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withdrawal.ID != 2 || withdrawal.AmountCents != 3000 {
		t.Fatalf("expected {id:2, amount:3000}, got %+v", withdrawal)
	}
	if got, _ := uc.Balance(ctx); got != 2000 {
		t.Fatalf("expected balance 2000, got %d", got)
	}

	if log.Len() != 2 || balance.Read() != 2000 {
		t.Fatalf("expected 2 movements and balance 2000, got %d / %d", log.Len(), balance.Read())
	}
}

func TestRecord_RejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	uc, log, _ := newEngine()

	for _, amount := range []int64{0, -1000} {
		_, err := uc.Record(ctx, usecase.RecordMovementInput{
			AmountCents: amount,
			Type:        domain.Deposit,
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	if log.Len() != 0 {
		t.Fatalf("expected no movements after rejected input, got %d", log.Len())
	}
}

func TestRecord_RejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newEngine()

	_, err := uc.Record(ctx, usecase.RecordMovementInput{
		AmountCents: 100,
		Type:        domain.MovementType("TRANSFER"),
	})
	if !errors.Is(err, domain.ErrInvalidMovementType) {
		t.Fatalf("expected ErrInvalidMovementType, got %v", err)
	}
}

func TestRecord_InsufficientFundsLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	uc, log, balance := newEngine()

	if _, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: 5000, Type: domain.Deposit}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: 3000, Type: domain.Withdrawal}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: 3000, Type: domain.Withdrawal, Description: "overdraft"})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if balance.Read() != 2000 {
		t.Fatalf("expected balance unchanged at 2000, got %d", balance.Read())
	}
	if log.Len() != 2 {
		t.Fatalf("expected log length unchanged at 2, got %d", log.Len())
	}

	// Withdrawal of exactly the balance is accepted.
	if _, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: 2000, Type: domain.Withdrawal}); err != nil {
		t.Fatalf("expected withdrawal of full balance to succeed, got %v", err)
	}
	if balance.Read() != 0 {
		t.Fatalf("expected balance 0, got %d", balance.Read())
	}
}

func TestRecord_IdempotentReplayReturnsOriginal(t *testing.T) {
	ctx := context.Background()
	uc, log, balance := newEngine()

	first, err := uc.Record(ctx, usecase.RecordMovementInput{
		AmountCents:    1000,
		Type:           domain.Deposit,
		Description:    "x",
		IdempotencyKey: "key-A",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := uc.Record(ctx, usecase.RecordMovementInput{
		AmountCents:    1000,
		Type:           domain.Deposit,
		Description:    "x",
		IdempotencyKey: "key-A",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID || first.AmountCents != second.AmountCents {
		t.Fatalf("expected identical replay, got %+v vs %+v", first, second)
	}
	if balance.Read() != 1000 {
		t.Fatalf("expected balance to reflect one application, got %d", balance.Read())
	}
	if log.Len() != 1 {
		t.Fatalf("expected exactly one stored movement, got %d", log.Len())
	}
}

func TestRecord_ReplayIsKeyBasedNotContentBased(t *testing.T) {
	ctx := context.Background()
	uc, _, balance := newEngine()

	original, err := uc.Record(ctx, usecase.RecordMovementInput{
		AmountCents:    1000,
		Type:           domain.Deposit,
		IdempotencyKey: "key-B",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Different amount and type, same key: the stored movement wins,
	// with no funds re-validation.
	replay, err := uc.Record(ctx, usecase.RecordMovementInput{
		AmountCents:    999999,
		Type:           domain.Withdrawal,
		IdempotencyKey: "key-B",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if replay.ID != original.ID || replay.Type != domain.Deposit || replay.AmountCents != 1000 {
		t.Fatalf("expected original movement back, got %+v", replay)
	}
	if balance.Read() != 1000 {
		t.Fatalf("expected balance 1000, got %d", balance.Read())
	}
}

func TestRecord_CorruptedIndexSurfacesInternalError(t *testing.T) {
	ctx := context.Background()

	log := mocks.NewMockMovementLog()
	index := mocks.NewMockIdempotencyIndex()
	index.Register("ghost", 99) // no such movement in the log

	uc := usecase.NewLedgerUseCase(log, mocks.NewMockBalanceTracker(), index, nil)

	_, err := uc.Record(ctx, usecase.RecordMovementInput{
		AmountCents:    100,
		Type:           domain.Deposit,
		IdempotencyKey: "ghost",
	})
	if !errors.Is(err, domain.ErrLedgerCorrupted) {
		t.Fatalf("expected ErrLedgerCorrupted, got %v", err)
	}
}

func TestRecord_PublishesAcceptedMovementsOnly(t *testing.T) {
	ctx := context.Background()

	publisher := mocks.NewMockEventPublisher()
	uc := usecase.NewLedgerUseCase(
		memory.NewMovementLog(),
		memory.NewBalanceTracker(),
		memory.NewIdempotencyIndex(),
		publisher,
	)

	if _, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: 500, Type: domain.Deposit, IdempotencyKey: "k"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Replay: no second event.
	if _, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: 500, Type: domain.Deposit, IdempotencyKey: "k"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rejected: no event.
	if _, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: 9999, Type: domain.Withdrawal}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one published event, got %d", len(events))
	}
	if events[0].ID != 1 || events[0].AmountCents != 500 {
		t.Fatalf("unexpected event payload: %+v", events[0])
	}
}

func TestRecord_IDsStrictlyIncreasingAndGapFree(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newEngine()

	for i := int64(1); i <= 50; i++ {
		m, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: 100, Type: domain.Deposit})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.ID != i {
			t.Fatalf("expected id %d, got %d", i, m.ID)
		}
	}
}

func TestHistory_OrderingAndPagination(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newEngine()

	for i := 0; i < 10; i++ {
		if _, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: int64(100 * (i + 1)), Type: domain.Deposit}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	full, err := uc.History(ctx, usecase.HistoryInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(full) != 10 {
		t.Fatalf("expected 10 movements, got %d", len(full))
	}
	for i := 0; i < len(full)-1; i++ {
		if full[i].CreatedAt.Before(full[i+1].CreatedAt) {
			t.Fatalf("expected createdAt descending at %d", i)
		}
		if full[i].CreatedAt.Equal(full[i+1].CreatedAt) && full[i].ID < full[i+1].ID {
			t.Fatalf("expected id descending on timestamp ties at %d", i)
		}
	}

	// History(limit, offset) must equal full[offset : offset+limit].
	for _, tc := range []struct{ limit, offset int }{
		{1, 0}, {3, 0}, {3, 3}, {5, 7}, {10, 0}, {4, 9},
	} {
		page, err := uc.History(ctx, usecase.HistoryInput{Limit: intPtr(tc.limit), Offset: intPtr(tc.offset)})
		if err != nil {
			t.Fatalf("limit=%d offset=%d: unexpected error: %v", tc.limit, tc.offset, err)
		}

		end := tc.offset + tc.limit
		if end > len(full) {
			end = len(full)
		}
		want := full[tc.offset:end]

		if len(page) != len(want) {
			t.Fatalf("limit=%d offset=%d: expected %d movements, got %d", tc.limit, tc.offset, len(want), len(page))
		}
		for i := range want {
			if page[i].ID != want[i].ID {
				t.Fatalf("limit=%d offset=%d: expected id %d at %d, got %d", tc.limit, tc.offset, want[i].ID, i, page[i].ID)
			}
		}
	}

	// Out-of-range offset yields an empty sequence, not an error.
	empty, err := uc.History(ctx, usecase.HistoryInput{Offset: intPtr(100)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty result for out-of-range offset, got %d", len(empty))
	}
}

func TestHistory_InvalidPagination(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newEngine()

	for _, tc := range []usecase.HistoryInput{
		{Limit: intPtr(0)},
		{Limit: intPtr(-5)},
		{Offset: intPtr(-1)},
	} {
		if _, err := uc.History(ctx, tc); !errors.Is(err, domain.ErrInvalidPagination) {
			t.Fatalf("input %+v: expected ErrInvalidPagination, got %v", tc, err)
		}
	}
}

func TestRecord_ConcurrentDepositsAndWithdrawals(t *testing.T) {
	ctx := context.Background()
	uc, log, balance := newEngine()

	// Seed enough funds for some, but not all, withdrawals to succeed.
	if _, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: 1000, Type: domain.Deposit}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const (
		workers    = 8
		perWorker  = 25
		amount     = 100
		totalCalls = workers * perWorker
	)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		movementType := domain.Deposit
		if w%2 == 0 {
			movementType = domain.Withdrawal
		}
		go func(mt domain.MovementType) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := uc.Record(ctx, usecase.RecordMovementInput{AmountCents: amount, Type: mt})
				if err != nil && !errors.Is(err, domain.ErrInsufficientFunds) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}(movementType)
	}

	wg.Wait()

	// Balance must equal the sum over the log and must never have gone
	// negative; a negative final value would prove an overdraft slipped in.
	var sum int64
	seen := make(map[int64]bool)
	for _, m := range log.List() {
		if seen[m.ID] {
			t.Fatalf("duplicate movement id %d", m.ID)
		}
		seen[m.ID] = true
		sum += m.BalanceEffect()
	}

	if balance.Read() != sum {
		t.Fatalf("balance %d does not match log sum %d", balance.Read(), sum)
	}
	if balance.Read() < 0 {
		t.Fatalf("balance went negative: %d", balance.Read())
	}
	if log.Len() > totalCalls+1 {
		t.Fatalf("more movements than calls: %d", log.Len())
	}
}

func TestRecord_ConcurrentSameKeyProducesOneMovement(t *testing.T) {
	ctx := context.Background()
	uc, log, balance := newEngine()

	const callers = 16

	var wg sync.WaitGroup
	wg.Add(callers)

	results := make([]*domain.Movement, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = uc.Record(ctx, usecase.RecordMovementInput{
				AmountCents:    2000,
				Type:           domain.Deposit,
				IdempotencyKey: "concurrent-key",
			})
		}(i)
	}

	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, errs[i])
		}
		if results[i].ID != results[0].ID || results[i].AmountCents != results[0].AmountCents {
			t.Fatalf("caller %d: expected identical movement, got %+v vs %+v", i, results[i], results[0])
		}
	}

	if log.Len() != 1 {
		t.Fatalf("expected exactly one stored movement, got %d", log.Len())
	}
	if balance.Read() != 2000 {
		t.Fatalf("expected balance 2000, got %d", balance.Read())
	}
}

func TestBalance_ReturnsReadTimestamp(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newEngine()

	balance, asOf := uc.Balance(ctx)
	if balance != 0 {
		t.Fatalf("expected zero balance, got %d", balance)
	}
	if asOf.IsZero() {
		t.Fatal("expected a non-zero as-of timestamp")
	}
}
