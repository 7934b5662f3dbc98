package diagram

import (
	"strings"

	"umlgate/internal/result"
)

// MaxContentChars is the input ceiling: 300 lines at 80 chars per line.
const MaxContentChars = 24000

// ValidateContent checks raw source text against the size and emptiness
// rules. It is deterministic and has no side effects.
//
// Missing begin/end markers are deliberately not checked here: malformed
// diagram syntax is a rendering-time concern, and the renderer answers it
// with an error image of its own.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return result.Fail(result.EmptyInput{})
	}
	if len(content) > MaxContentChars {
		return result.Fail(result.InputTooLong{
			Actual: len(content),
			Max:    MaxContentChars,
		})
	}
	return nil
}
