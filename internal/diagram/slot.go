package diagram

import (
	"fmt"
	"time"
)

// MaxSlots is the number of fixed-capacity persistence slots.
const MaxSlots = 10

// Slot is one named persistence location for a document. Slots are numbered
// 1..MaxSlots; a save overwrites the previous occupant whole, never partially.
type Slot struct {
	Number   int       `json:"slot_number"`
	Document Document  `json:"document"`
	SavedAt  time.Time `json:"saved_at"`
}

// ValidateSlotNumber checks that n is within 1..MaxSlots.
func ValidateSlotNumber(n int) error {
	if n < 1 || n > MaxSlots {
		return fmt.Errorf("invalid slot number %d: valid range is 1-%d", n, MaxSlots)
	}
	return nil
}

// SlotKey is the backend key under which slot n is persisted.
func SlotKey(n int) string {
	return fmt.Sprintf("slot_%d", n)
}
