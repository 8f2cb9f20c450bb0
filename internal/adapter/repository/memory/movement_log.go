// Package memory holds the in-process storage for the ledger: the
// append-only movement log, the running balance counter and the
// idempotency key index. All three are owned and mutated exclusively by
// the ledger use case; they never call into each other.
package memory

import (
	"fmt"
	"sync"

	"github.com/iho/tinyledger/internal/domain"
)

// MovementLog is an append-only store of accepted movements keyed by id.
// Once appended, a movement's fields never change and its id is never
// reassigned.
type MovementLog struct {
	mu        sync.RWMutex
	movements map[int64]domain.Movement
}

// NewMovementLog creates an empty MovementLog.
func NewMovementLog() *MovementLog {
	return &MovementLog{
		movements: make(map[int64]domain.Movement),
	}
}

// Append stores a movement. Appending an id that already exists is a
// programming error and is rejected.
func (l *MovementLog) Append(m domain.Movement) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.movements[m.ID]; exists {
		return fmt.Errorf("%w: movement %d already appended", domain.ErrLedgerCorrupted, m.ID)
	}

	l.movements[m.ID] = m
	return nil
}

// Get returns the movement with the given id.
func (l *MovementLog) Get(id int64) (domain.Movement, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.movements[id]
	if !ok {
		return domain.Movement{}, fmt.Errorf("%w: id %d", domain.ErrMovementNotFound, id)
	}

	return m, nil
}

// List returns a snapshot copy of all movements, in no particular order.
func (l *MovementLog) List() []domain.Movement {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Movement, 0, len(l.movements))
	for _, m := range l.movements {
		out = append(out, m)
	}

	return out
}

// Len returns the number of appended movements.
func (l *MovementLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.movements)
}
