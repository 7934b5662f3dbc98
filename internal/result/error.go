package result

import "errors"

// Error carries a taxonomy code across an error chain. Components that fail
// return *Error so callers can recover the code with CodeOf and build an
// outcome envelope from it; no untyped failure escapes a component boundary.
type Error struct {
	Code Code
}

// Fail wraps a code as an error.
func Fail(c Code) *Error {
	return &Error{Code: c}
}

func (e *Error) Error() string {
	return string(e.Code.Kind()) + ": " + Message(e.Code)
}

// CodeOf extracts the taxonomy code from an error chain.
func CodeOf(err error) (Code, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Code, true
	}
	return nil, false
}
