// Package diagram holds the domain model: documents, persistence slots,
// image formats, content validation, and rendered-image checks.
package diagram

import (
	"time"

	"github.com/google/uuid"
)

// Document is a unit of diagram source text with metadata. The ID is
// assigned at creation and stable for the document's lifetime; content is
// the only validated field.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     *string   `json:"title,omitempty"`
}

// NewDocument creates a document with a fresh random ID. The caller supplies
// the creation instant so storage can keep timestamps deterministic under an
// injected clock.
func NewDocument(content string, now time.Time) Document {
	return Document{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the document's content against the input rules.
func (d Document) Validate() error {
	return ValidateContent(d.Content)
}
