package usecase

import (
	"context"
	"time"

	"github.com/iho/tinyledger/internal/domain"
)

// MovementLog defines the append-only movement store.
type MovementLog interface {
	Append(m domain.Movement) error
	Get(id int64) (domain.Movement, error)
	List() []domain.Movement
	Len() int
}

// BalanceTracker defines the incrementally maintained balance counter.
type BalanceTracker interface {
	Apply(deltaCents int64)
	Read() int64
}

// IdempotencyIndex defines the idempotency key to movement id mapping.
type IdempotencyIndex interface {
	Lookup(key string) (int64, bool)
	Register(key string, id int64)
}

// EventPublisher delivers movement events to interested consumers.
// Implementations handle their own delivery failures.
type EventPublisher interface {
	MovementRecorded(ctx context.Context, m domain.Movement)
}

// IdempotencyStore handles HTTP-level idempotency response caching.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
