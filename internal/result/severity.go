package result

// Severity classifies the user impact of an outcome.
// It is a total order of impact (Info < Warning < Error), not of urgency.
type Severity string

const (
	// SeverityInfo marks outcomes that completed normally.
	SeverityInfo Severity = "INFO"

	// SeverityWarning marks expected user-input conditions. The operation
	// did not complete, but the caller can fix the input and retry.
	SeverityWarning Severity = "WARNING"

	// SeverityError marks processing, transport, or storage failures.
	SeverityError Severity = "ERROR"
)

// rank returns the position of s in the impact order.
// Unknown severities rank highest so they are never silently downgraded.
func (s Severity) rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	}
	return 3
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}
