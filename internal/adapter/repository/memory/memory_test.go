package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/iho/tinyledger/internal/domain"
)

func TestMovementLogAppendAndGet(t *testing.T) {
	log := NewMovementLog()

	m := domain.Movement{
		ID:          1,
		Type:        domain.Deposit,
		AmountCents: 5000,
		CreatedAt:   time.Now().UTC(),
		Description: "init",
	}

	if err := log.Append(m); err != nil {
		t.Fatalf("unexpected error appending: %v", err)
	}

	got, err := log.Get(1)
	if err != nil {
		t.Fatalf("unexpected error getting: %v", err)
	}
	if got != m {
		t.Fatalf("expected %+v, got %+v", m, got)
	}
}

func TestMovementLogGetMissing(t *testing.T) {
	log := NewMovementLog()

	_, err := log.Get(42)
	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound, got %v", err)
	}
}

func TestMovementLogRejectsDuplicateID(t *testing.T) {
	log := NewMovementLog()

	m := domain.Movement{ID: 1, Type: domain.Deposit, AmountCents: 100}
	if err := log.Append(m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := log.Append(domain.Movement{ID: 1, Type: domain.Withdrawal, AmountCents: 50})
	if !errors.Is(err, domain.ErrLedgerCorrupted) {
		t.Fatalf("expected ErrLedgerCorrupted on duplicate id, got %v", err)
	}

	// The original movement must be untouched.
	got, _ := log.Get(1)
	if got != m {
		t.Fatalf("expected original movement to survive, got %+v", got)
	}
}

func TestMovementLogListReturnsSnapshot(t *testing.T) {
	log := NewMovementLog()

	for i := int64(1); i <= 3; i++ {
		if err := log.Append(domain.Movement{ID: i, Type: domain.Deposit, AmountCents: i * 100}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snapshot := log.List()
	if len(snapshot) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(snapshot))
	}

	// Mutating the snapshot must not affect the log.
	snapshot[0].AmountCents = 999999
	for i := int64(1); i <= 3; i++ {
		got, _ := log.Get(i)
		if got.AmountCents != i*100 {
			t.Fatalf("log entry %d mutated via snapshot: %+v", i, got)
		}
	}

	if log.Len() != 3 {
		t.Fatalf("expected Len 3, got %d", log.Len())
	}
}

func TestBalanceTracker(t *testing.T) {
	b := NewBalanceTracker()

	if b.Read() != 0 {
		t.Fatalf("expected zero initial balance, got %d", b.Read())
	}

	b.Apply(5000)
	b.Apply(-3000)

	if b.Read() != 2000 {
		t.Fatalf("expected balance 2000, got %d", b.Read())
	}
}

func TestIdempotencyIndex(t *testing.T) {
	idx := NewIdempotencyIndex()

	if _, ok := idx.Lookup("key-A"); ok {
		t.Fatal("expected key-A to be absent")
	}

	idx.Register("key-A", 7)

	id, ok := idx.Lookup("key-A")
	if !ok || id != 7 {
		t.Fatalf("expected key-A -> 7, got %d (ok=%v)", id, ok)
	}
}
