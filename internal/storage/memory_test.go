package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackendBasics(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	_, found, err := b.Get(ctx, "slot_1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Set(ctx, "slot_1", []byte("one")))
	require.NoError(t, b.Set(ctx, "slot_2", []byte("two")))

	v, found, err := b.Get(ctx, "slot_1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("one"), v)

	keys, err := b.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"slot_1", "slot_2"}, keys)

	require.NoError(t, b.Delete(ctx, "slot_1"))
	require.NoError(t, b.Delete(ctx, "slot_1")) // absent key is fine

	_, found, err = b.Get(ctx, "slot_1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryBackendReturnsCopies(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	in := []byte("value")
	require.NoError(t, b.Set(ctx, "k", in))
	in[0] = 'X'

	out, _, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), out)

	out[0] = 'Y'
	again, _, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}

func TestBoundedMemoryBackendQuota(t *testing.T) {
	ctx := context.Background()
	b := NewBoundedMemoryBackend(10)

	require.NoError(t, b.Set(ctx, "a", []byte("12345")))
	assert.ErrorIs(t, b.Set(ctx, "b", []byte("123456")), ErrQuotaExceeded)

	// Replacing a key counts the replacement, not old+new.
	require.NoError(t, b.Set(ctx, "a", []byte("1234567890")))
}

func TestMemoryBackendConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Set(ctx, "shared", []byte("v"))
				_, _, _ = b.Get(ctx, "shared")
				_, _ = b.Keys(ctx)
			}
		}()
	}
	wg.Wait()

	v, found, err := b.Get(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), v)
}
