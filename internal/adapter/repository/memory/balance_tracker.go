package memory

import "sync/atomic"

// BalanceTracker maintains the running ledger balance as a single
// counter, updated incrementally rather than recomputed from the log.
// Readers always observe a fully applied value.
type BalanceTracker struct {
	cents atomic.Int64
}

// NewBalanceTracker creates a tracker starting at zero.
func NewBalanceTracker() *BalanceTracker {
	return &BalanceTracker{}
}

// Apply adds a signed cent amount to the balance.
func (b *BalanceTracker) Apply(deltaCents int64) {
	b.cents.Add(deltaCents)
}

// Read returns the current balance in cents.
func (b *BalanceTracker) Read() int64 {
	return b.cents.Load()
}
