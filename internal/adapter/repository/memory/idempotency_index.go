package memory

import "sync"

// IdempotencyIndex maps caller-supplied idempotency keys to the id of
// the movement they originally produced. A key is registered at most
// once, inside the same critical section as the funds check.
type IdempotencyIndex struct {
	mu  sync.RWMutex
	ids map[string]int64
}

// NewIdempotencyIndex creates an empty index.
func NewIdempotencyIndex() *IdempotencyIndex {
	return &IdempotencyIndex{
		ids: make(map[string]int64),
	}
}

// Lookup returns the movement id registered for key, if any.
func (i *IdempotencyIndex) Lookup(key string) (int64, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	id, ok := i.ids[key]
	return id, ok
}

// Register records that key produced the movement with the given id.
func (i *IdempotencyIndex) Register(key string, id int64) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.ids[key] = id
}
