package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"

	"umlgate/internal/result"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // operation completed with an INFO outcome
	ExitFailure      = 1 // operation produced a WARNING or ERROR outcome
	ExitCommandError = 2 // command error (bad flags, unreadable files, config problems)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	Locale    language.Tag
}

// outcomeResponse is the JSON shape printed for every operation outcome. It
// mirrors the HTTP envelope so scripted callers can share one decoder.
type outcomeResponse struct {
	Severity result.Severity `json:"severity"`
	Code     json.RawMessage `json:"code"`
	Message  string          `json:"message"`
	Data     any             `json:"data,omitempty"`
}

// Outcome prints an operation outcome in the configured format. data carries
// operation extras (saved paths, slot listings) and may be nil.
func (f *OutputFormatter) Outcome(out result.Outcome, data any) error {
	msg := result.MessageIn(f.Locale, out.Code)

	if f.Format == "json" {
		code, err := result.MarshalCode(out.Code)
		if err != nil {
			return err
		}
		return json.NewEncoder(f.Writer).Encode(outcomeResponse{
			Severity: out.Severity,
			Code:     code,
			Message:  msg,
			Data:     data,
		})
	}

	fmt.Fprintf(f.Writer, "[%s] %s: %s\n", out.Severity, out.Code.Kind(), msg)
	if data != nil {
		fmt.Fprintln(f.Writer, data)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
