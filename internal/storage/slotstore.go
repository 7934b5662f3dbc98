package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"umlgate/internal/diagram"
	"umlgate/internal/result"
)

// PlaceholderTitle is shown for slots whose document carries no title.
const PlaceholderTitle = "(untitled)"

const (
	previewLines    = 3
	previewMaxChars = 100
)

// Clock supplies the save timestamp. Injected so tests get deterministic
// saved_at values.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SlotInfo is one row of a slot listing.
type SlotInfo struct {
	Slot    int       `json:"slot"`
	Title   string    `json:"title"`
	SavedAt time.Time `json:"saved_at"`
	Preview string    `json:"preview"`
}

// SlotStore manages the fixed set of persistence slots over a Backend. All
// failures it returns carry a taxonomy code; the backend's raw error text
// only appears inside the opaque reason fields.
//
// SlotStore serializes nothing across calls: two concurrent operations on
// the same slot race at the backend's single-key granularity, and a
// FindFreeSlot followed by Save is not atomic as a pair. Callers tolerate a
// lost race by treating the eventual save as authoritative.
type SlotStore struct {
	backend Backend
	clock   Clock
}

// New creates a SlotStore on the given backend with the system clock.
func New(backend Backend) *SlotStore {
	return NewWithClock(backend, systemClock{})
}

// NewWithClock creates a SlotStore with an injected clock.
func NewWithClock(backend Backend, clock Clock) *SlotStore {
	return &SlotStore{backend: backend, clock: clock}
}

// Save writes text into slot n, overwriting any previous occupant. The slot
// range is validated before the backend is touched.
func (s *SlotStore) Save(ctx context.Context, n int, text string) error {
	if err := diagram.ValidateSlotNumber(n); err != nil {
		return result.Fail(result.SlotWriteFailed{Reason: err.Error()})
	}

	now := s.clock.Now()
	slot := diagram.Slot{
		Number:   n,
		Document: diagram.NewDocument(text, now),
		SavedAt:  now,
	}

	record, err := json.Marshal(slot)
	if err != nil {
		return result.Fail(result.SlotWriteFailed{Reason: err.Error()})
	}

	if err := s.backend.Set(ctx, diagram.SlotKey(n), record); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			// Actual stored size is unknown at this layer.
			return result.Fail(result.SlotQuotaExceeded{
				Actual: 0,
				Max:    diagram.MaxContentChars,
			})
		}
		return result.Fail(result.SlotWriteFailed{Reason: err.Error()})
	}
	return nil
}

// Load returns the content stored in slot n. An absent slot is not an
// error: found is false and err is nil.
func (s *SlotStore) Load(ctx context.Context, n int) (content string, found bool, err error) {
	if err := diagram.ValidateSlotNumber(n); err != nil {
		return "", false, result.Fail(result.SlotReadFailed{Reason: err.Error()})
	}

	slot, found, err := s.read(ctx, n)
	if err != nil {
		return "", false, result.Fail(result.SlotReadFailed{Reason: err.Error()})
	}
	if !found {
		return "", false, nil
	}
	return slot.Document.Content, true, nil
}

// Delete removes slot n. Deleting an absent slot succeeds silently; callers
// that need to know whether the slot was occupied must Load first.
func (s *SlotStore) Delete(ctx context.Context, n int) error {
	if err := diagram.ValidateSlotNumber(n); err != nil {
		return result.Fail(result.SlotDeleteFailed{Reason: err.Error()})
	}
	if err := s.backend.Delete(ctx, diagram.SlotKey(n)); err != nil {
		return result.Fail(result.SlotDeleteFailed{Reason: err.Error()})
	}
	return nil
}

// List enumerates occupied slots in slot order. Records that fail to decode
// are skipped rather than failing the whole listing; a broken slot stays
// invisible until overwritten or deleted.
func (s *SlotStore) List(ctx context.Context) ([]SlotInfo, error) {
	infos := make([]SlotInfo, 0, diagram.MaxSlots)
	for n := 1; n <= diagram.MaxSlots; n++ {
		slot, found, err := s.read(ctx, n)
		if errors.Is(err, errMalformedRecord) {
			continue
		}
		if err != nil {
			return nil, result.Fail(result.SlotReadFailed{Reason: err.Error()})
		}
		if !found {
			continue
		}

		title := PlaceholderTitle
		if slot.Document.Title != nil && *slot.Document.Title != "" {
			title = *slot.Document.Title
		}
		infos = append(infos, SlotInfo{
			Slot:    n,
			Title:   title,
			SavedAt: slot.SavedAt,
			Preview: preview(slot.Document.Content),
		})
	}
	return infos, nil
}

// FindFreeSlot returns the lowest unoccupied slot number. When every slot is
// occupied it fails with the no-free-slot outcome.
func (s *SlotStore) FindFreeSlot(ctx context.Context) (int, error) {
	for n := 1; n <= diagram.MaxSlots; n++ {
		_, found, err := s.backend.Get(ctx, diagram.SlotKey(n))
		if err != nil {
			return 0, result.Fail(result.SlotReadFailed{Reason: err.Error()})
		}
		if !found {
			return n, nil
		}
	}
	return 0, result.Fail(result.NoFreeSlot{MaxSlots: diagram.MaxSlots})
}

// errMalformedRecord marks a stored record that fails to decode, as opposed
// to a backend read failure.
var errMalformedRecord = errors.New("malformed slot record")

// read fetches and decodes one slot record, returning plain wrapped errors;
// callers map them into the taxonomy.
func (s *SlotStore) read(ctx context.Context, n int) (diagram.Slot, bool, error) {
	raw, found, err := s.backend.Get(ctx, diagram.SlotKey(n))
	if err != nil {
		return diagram.Slot{}, false, fmt.Errorf("get slot %d: %w", n, err)
	}
	if !found {
		return diagram.Slot{}, false, nil
	}

	var slot diagram.Slot
	if err := json.Unmarshal(raw, &slot); err != nil {
		return diagram.Slot{}, false, fmt.Errorf("%w: %v", errMalformedRecord, err)
	}
	return slot, true, nil
}

// preview renders the first lines of content for a listing, truncated to
// previewMaxChars characters with a trailing ellipsis marker.
func preview(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > previewLines {
		lines = lines[:previewLines]
	}
	p := strings.Join(lines, "\n")

	runes := []rune(p)
	if len(runes) > previewMaxChars {
		return string(runes[:previewMaxChars]) + "..."
	}
	return p
}
