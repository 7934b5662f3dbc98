package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryBackend is a mutex-guarded in-memory Backend. It is the default for
// tests and for ephemeral gateway deployments that do not need slots to
// survive a restart.
type MemoryBackend struct {
	mu       sync.RWMutex
	values   map[string][]byte
	maxBytes int // 0 means unbounded
}

// NewMemoryBackend creates an unbounded in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: map[string][]byte{}}
}

// NewBoundedMemoryBackend creates an in-memory backend that refuses writes
// once total stored bytes would exceed maxBytes, mirroring the quota
// behavior of a browser local-storage medium.
func NewBoundedMemoryBackend(maxBytes int) *MemoryBackend {
	return &MemoryBackend{values: map[string][]byte{}, maxBytes: maxBytes}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxBytes > 0 {
		total := len(value)
		for k, v := range m.values {
			if k == key {
				continue
			}
			total += len(v)
		}
		if total > m.maxBytes {
			return ErrQuotaExceeded
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryBackend) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
