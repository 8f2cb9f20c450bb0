// Package mocks provides hand-rolled test doubles for the use case
// interfaces. Each mock behaves like the real in-memory implementation
// unless a Func field overrides a method.
package mocks

import (
	"context"
	"sync"

	"github.com/iho/tinyledger/internal/domain"
)

// MockMovementLog is a mock implementation of usecase.MovementLog.
type MockMovementLog struct {
	mu        sync.RWMutex
	movements map[int64]domain.Movement

	AppendFunc func(m domain.Movement) error
	GetFunc    func(id int64) (domain.Movement, error)
	ListFunc   func() []domain.Movement
	LenFunc    func() int
}

func NewMockMovementLog() *MockMovementLog {
	return &MockMovementLog{
		movements: make(map[int64]domain.Movement),
	}
}

func (m *MockMovementLog) Append(movement domain.Movement) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements[movement.ID] = movement
	return nil
}

func (m *MockMovementLog) Get(id int64) (domain.Movement, error) {
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	movement, ok := m.movements[id]
	if !ok {
		return domain.Movement{}, domain.ErrMovementNotFound
	}
	return movement, nil
}

func (m *MockMovementLog) List() []domain.Movement {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Movement, 0, len(m.movements))
	for _, movement := range m.movements {
		out = append(out, movement)
	}
	return out
}

func (m *MockMovementLog) Len() int {
	if m.LenFunc != nil {
		return m.LenFunc()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.movements)
}

// MockBalanceTracker is a mock implementation of usecase.BalanceTracker.
type MockBalanceTracker struct {
	mu    sync.Mutex
	cents int64

	ApplyFunc func(deltaCents int64)
	ReadFunc  func() int64
}

func NewMockBalanceTracker() *MockBalanceTracker {
	return &MockBalanceTracker{}
}

func (m *MockBalanceTracker) Apply(deltaCents int64) {
	if m.ApplyFunc != nil {
		m.ApplyFunc(deltaCents)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cents += deltaCents
}

func (m *MockBalanceTracker) Read() int64 {
	if m.ReadFunc != nil {
		return m.ReadFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cents
}

// MockIdempotencyIndex is a mock implementation of usecase.IdempotencyIndex.
type MockIdempotencyIndex struct {
	mu  sync.RWMutex
	ids map[string]int64

	LookupFunc   func(key string) (int64, bool)
	RegisterFunc func(key string, id int64)
}

func NewMockIdempotencyIndex() *MockIdempotencyIndex {
	return &MockIdempotencyIndex{
		ids: make(map[string]int64),
	}
}

func (m *MockIdempotencyIndex) Lookup(key string) (int64, bool) {
	if m.LookupFunc != nil {
		return m.LookupFunc(key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.ids[key]
	return id, ok
}

func (m *MockIdempotencyIndex) Register(key string, id int64) {
	if m.RegisterFunc != nil {
		m.RegisterFunc(key, id)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[key] = id
}

// MockEventPublisher records published events for assertions.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []domain.Movement

	MovementRecordedFunc func(ctx context.Context, m domain.Movement)
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) MovementRecorded(ctx context.Context, movement domain.Movement) {
	if m.MovementRecordedFunc != nil {
		m.MovementRecordedFunc(ctx, movement)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, movement)
}

// Events returns a copy of the recorded events.
func (m *MockEventPublisher) Events() []domain.Movement {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Movement, len(m.events))
	copy(out, m.events)
	return out
}
