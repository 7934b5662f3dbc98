package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umlgate/internal/diagram"
	"umlgate/internal/result"
	"umlgate/internal/testutil"
)

var testInstant = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

func newTestStore() *SlotStore {
	return NewWithClock(NewMemoryBackend(), testutil.NewFixedClock(testInstant))
}

func requireKind(t *testing.T, err error, kind result.Kind) result.Code {
	t.Helper()
	code, ok := result.CodeOf(err)
	require.True(t, ok, "expected a taxonomy error, got %v", err)
	require.Equal(t, kind, code.Kind())
	return code
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.Save(ctx, 3, "@startuml\nA -> B\n@enduml"))

	content, found, err := store.Load(ctx, 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "@startuml\nA -> B\n@enduml", content)
}

func TestSaveSlotRange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	for _, n := range []int{0, 11, -1} {
		err := store.Save(ctx, n, "x")
		requireKind(t, err, result.KindSlotWriteFailed)
	}
	for n := 1; n <= diagram.MaxSlots; n++ {
		assert.NoError(t, store.Save(ctx, n, "x"), "slot %d", n)
	}
}

func TestSaveOverwritesWhole(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.Save(ctx, 1, "first version"))
	require.NoError(t, store.Save(ctx, 1, "second version"))

	content, found, err := store.Load(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second version", content)
}

func TestLoadAbsentSlot(t *testing.T) {
	content, found, err := newTestStore().Load(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, content)
}

func TestLoadSlotRange(t *testing.T) {
	_, _, err := newTestStore().Load(context.Background(), 0)
	requireKind(t, err, result.KindSlotReadFailed)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	// Deleting a never-saved slot succeeds silently.
	require.NoError(t, store.Delete(ctx, 3))

	require.NoError(t, store.Save(ctx, 3, "x"))
	require.NoError(t, store.Delete(ctx, 3))

	_, found, err := store.Load(ctx, 3)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Delete(ctx, 3))
}

func TestDeleteSlotRange(t *testing.T) {
	err := newTestStore().Delete(context.Background(), 11)
	requireKind(t, err, result.KindSlotDeleteFailed)
}

func TestLoadMalformedRecord(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, diagram.SlotKey(2), []byte("{not json")))

	_, _, err := New(backend).Load(ctx, 2)
	code := requireKind(t, err, result.KindSlotReadFailed)
	assert.Contains(t, code.(result.SlotReadFailed).Reason, "malformed")
}

func TestQuotaMapsToSlotQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	store := NewWithClock(NewBoundedMemoryBackend(64), testutil.NewFixedClock(testInstant))

	err := store.Save(ctx, 1, strings.Repeat("x", 4096))
	code := requireKind(t, err, result.KindSlotQuotaExceeded)

	quota := code.(result.SlotQuotaExceeded)
	assert.Equal(t, 0, quota.Actual)
	assert.Equal(t, diagram.MaxContentChars, quota.Max)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewFixedClock(testInstant)
	store := NewWithClock(NewMemoryBackend(), clock)

	require.NoError(t, store.Save(ctx, 2, "@startuml\nA -> B\n@enduml"))
	clock.Advance(time.Minute)
	require.NoError(t, store.Save(ctx, 7, "line one\nline two\nline three\nline four"))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, 2, infos[0].Slot)
	assert.Equal(t, PlaceholderTitle, infos[0].Title)
	assert.Equal(t, testInstant, infos[0].SavedAt)
	assert.Equal(t, "@startuml\nA -> B\n@enduml", infos[0].Preview)

	// Preview keeps the first three lines only.
	assert.Equal(t, 7, infos[1].Slot)
	assert.Equal(t, "line one\nline two\nline three", infos[1].Preview)
	assert.Equal(t, testInstant.Add(time.Minute), infos[1].SavedAt)
}

func TestListSkipsMalformedRecords(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	store := NewWithClock(backend, testutil.NewFixedClock(testInstant))

	require.NoError(t, store.Save(ctx, 1, "good"))
	require.NoError(t, backend.Set(ctx, diagram.SlotKey(2), []byte("garbage")))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 1, infos[0].Slot)
}

func TestListEmptyStore(t *testing.T) {
	infos, err := newTestStore().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestPreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 150)
	p := preview(long)
	assert.Equal(t, strings.Repeat("a", 100)+"...", p)

	// Multibyte content truncates on rune boundaries.
	kana := strings.Repeat("あ", 150)
	p = preview(kana)
	assert.Equal(t, strings.Repeat("あ", 100)+"...", p)

	assert.Equal(t, "short", preview("short"))
}

func TestFindFreeSlot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	n, err := store.FindFreeSlot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Save(ctx, 1, "x"))
	require.NoError(t, store.Save(ctx, 2, "x"))

	n, err = store.FindFreeSlot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// A deleted slot becomes free again.
	require.NoError(t, store.Delete(ctx, 1))
	n, err = store.FindFreeSlot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFindFreeSlotExhausted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	for n := 1; n <= diagram.MaxSlots; n++ {
		require.NoError(t, store.Save(ctx, n, "x"))
	}

	_, err := store.FindFreeSlot(ctx)
	code := requireKind(t, err, result.KindNoFreeSlot)
	assert.Equal(t, diagram.MaxSlots, code.(result.NoFreeSlot).MaxSlots)
}

// failingBackend simulates a broken medium for error-path coverage.
type failingBackend struct{}

var errBroken = errors.New("backing store unavailable")

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errBroken
}
func (failingBackend) Set(context.Context, string, []byte) error { return errBroken }
func (failingBackend) Delete(context.Context, string) error      { return errBroken }
func (failingBackend) Keys(context.Context) ([]string, error)    { return nil, errBroken }

func TestBackendFailuresAreClassified(t *testing.T) {
	ctx := context.Background()
	store := New(failingBackend{})

	requireKind(t, store.Save(ctx, 1, "x"), result.KindSlotWriteFailed)

	_, _, err := store.Load(ctx, 1)
	requireKind(t, err, result.KindSlotReadFailed)

	requireKind(t, store.Delete(ctx, 1), result.KindSlotDeleteFailed)

	_, err = store.List(ctx)
	requireKind(t, err, result.KindSlotReadFailed)

	_, err = store.FindFreeSlot(ctx)
	requireKind(t, err, result.KindSlotReadFailed)
}
