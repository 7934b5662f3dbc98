// Package storage provides the fixed-capacity slot persistence layer: a
// capability-style Backend interface over an abstract key-value medium, a
// mutex-guarded in-memory backend, a SQLite backend, and the SlotStore that
// maps backend failures into the result taxonomy.
package storage

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by a Backend when a write is refused for
// capacity reasons. The SlotStore maps it to the slot-quota outcome.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is the abstract persistence medium. Implementations must make a
// single Set or Delete atomic for the one key it touches; no cross-key or
// cross-call transaction is assumed.
type Backend interface {
	// Get returns the value for key, with found=false when absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set writes value under key, replacing any previous value whole.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys in lexicographic order.
	Keys(ctx context.Context) ([]string, error)
}
