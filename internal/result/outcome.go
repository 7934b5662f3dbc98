package result

import "encoding/json"

// Outcome pairs a code with its derived severity and an optional binary
// payload. An Outcome is constructed exactly once per operation and never
// mutated afterwards; the payload is present only for conversion/export
// success.
type Outcome struct {
	Code     Code
	Severity Severity
	Payload  []byte
}

// New builds a payload-less outcome for c. The severity is derived from the
// code, never supplied by the caller.
func New(c Code) Outcome {
	return Outcome{Code: c, Severity: SeverityOf(c)}
}

// WithPayload builds a successful outcome carrying rendered image bytes.
func WithPayload(c Code, payload []byte) Outcome {
	return Outcome{Code: c, Severity: SeverityOf(c), Payload: payload}
}

// FromError builds a failure outcome from an error chain. An error without a
// taxonomy code indicates a bug in a producer; it is reported as an
// unclassified processing failure rather than dropped.
func FromError(err error) Outcome {
	if c, ok := CodeOf(err); ok {
		return New(c)
	}
	return New(RenderParseFailed{})
}

// OK reports whether the outcome is an Info-severity success.
func (o Outcome) OK() bool {
	return o.Severity == SeverityInfo
}

// envelope is the wire shape of an outcome.
type envelope struct {
	Severity Severity        `json:"severity"`
	Code     json.RawMessage `json:"code"`
	Payload  []byte          `json:"payload,omitempty"`
}

// MarshalJSON renders the outcome envelope:
//
//	{"severity": "...", "code": {"kind": "...", ...}, "payload": <base64>}
func (o Outcome) MarshalJSON() ([]byte, error) {
	code, err := MarshalCode(o.Code)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{
		Severity: o.Severity,
		Code:     code,
		Payload:  o.Payload,
	})
}
