// Package result defines the processing-result taxonomy shared by every
// layer of umlgate: a closed set of tagged outcome codes, the pure mapping
// from code to severity, the outcome envelope returned to callers, and the
// message catalog that renders codes for humans.
//
// The taxonomy is the only failure vocabulary that crosses a component
// boundary. Validation, the render transport, and the slot store all emit
// these codes; the gateway and the CLI only consume them.
package result

import "encoding/json"

// Kind is the stable, machine-readable identifier of a taxonomy variant.
type Kind string

const (
	// Success family (INFO).
	KindConversionSucceeded Kind = "CONVERSION_OK"
	KindExportSucceeded     Kind = "EXPORT_OK"
	KindSlotSaved           Kind = "SLOT_SAVED"
	KindSlotLoaded          Kind = "SLOT_LOADED"
	KindSlotDeleted         Kind = "SLOT_DELETED"

	// Validation family (WARNING).
	KindEmptyInput   Kind = "EMPTY_INPUT"
	KindInputTooLong Kind = "INPUT_TOO_LONG"

	// Slot-capacity family (WARNING).
	KindSlotQuotaExceeded Kind = "SLOT_QUOTA_EXCEEDED"
	KindNoFreeSlot        Kind = "NO_FREE_SLOT"

	// Processing family (ERROR).
	KindOutputTooLarge    Kind = "OUTPUT_TOO_LARGE"
	KindEncodingFailed    Kind = "ENCODING_FAILED"
	KindRenderParseFailed Kind = "RENDER_PARSE_FAILED"

	// Transport family (ERROR).
	KindRendererUnreachable Kind = "RENDERER_UNREACHABLE"
	KindRendererTimedOut    Kind = "RENDERER_TIMED_OUT"
	KindRendererRejected    Kind = "RENDERER_REJECTED"

	// Slot-I/O family (ERROR).
	KindSlotWriteFailed  Kind = "SLOT_WRITE_FAILED"
	KindSlotReadFailed   Kind = "SLOT_READ_FAILED"
	KindSlotDeleteFailed Kind = "SLOT_DELETE_FAILED"
)

// Code is one tagged outcome of the closed taxonomy. Each variant is an
// immutable struct carrying only the data needed to render a message or
// drive caller logic. The set is sealed: variants live in this package only.
type Code interface {
	Kind() Kind
	isCode()
}

// ConversionSucceeded reports a successful diagram conversion.
type ConversionSucceeded struct{}

// ExportSucceeded reports a successful diagram export.
type ExportSucceeded struct{}

// SlotSaved reports a successful save to a persistence slot.
type SlotSaved struct {
	Slot int `json:"slot"`
}

// SlotLoaded reports a successful load from a persistence slot.
type SlotLoaded struct {
	Slot int `json:"slot"`
}

// SlotDeleted reports a successful delete of a persistence slot.
type SlotDeleted struct {
	Slot int `json:"slot"`
}

// EmptyInput reports that the submitted source text was empty or
// whitespace-only.
type EmptyInput struct{}

// InputTooLong reports that the submitted source text exceeded the
// character ceiling.
type InputTooLong struct {
	Actual int `json:"actual"`
	Max    int `json:"max"`
}

// SlotQuotaExceeded reports that the storage backend refused a write for
// capacity reasons. Actual is 0 when the layer reporting it cannot know the
// stored size.
type SlotQuotaExceeded struct {
	Actual int `json:"actual"`
	Max    int `json:"max"`
}

// NoFreeSlot reports that every persistence slot is occupied.
type NoFreeSlot struct {
	MaxSlots int `json:"max_slots"`
}

// OutputTooLarge reports that a rendered image exceeded the output ceiling.
type OutputTooLarge struct {
	ActualBytes int `json:"actual_bytes"`
	MaxBytes    int `json:"max_bytes"`
}

// EncodingFailed reports that the source text could not be encoded for the
// renderer request path.
type EncodingFailed struct {
	Encoding string `json:"encoding"`
}

// RenderParseFailed reports an unclassifiable processing failure while
// handling renderer output. Line is nil when no position is known.
type RenderParseFailed struct {
	Line *int `json:"line,omitempty"`
}

// RendererUnreachable reports a connection or DNS failure, or a non-2xx
// response, from the render endpoint.
type RendererUnreachable struct {
	Endpoint string `json:"endpoint"`
}

// RendererTimedOut reports that the render call exceeded its timeout.
type RendererTimedOut struct {
	DurationMs int64 `json:"duration_ms"`
}

// RendererRejected reports any other transport-layer failure. Message
// carries the opaque diagnostic text; it is the only place raw transport
// detail is allowed to surface.
type RendererRejected struct {
	Message string `json:"message"`
}

// SlotWriteFailed reports a failed slot write.
type SlotWriteFailed struct {
	Reason string `json:"reason"`
}

// SlotReadFailed reports a failed or malformed slot read.
type SlotReadFailed struct {
	Reason string `json:"reason"`
}

// SlotDeleteFailed reports a failed slot delete.
type SlotDeleteFailed struct {
	Reason string `json:"reason"`
}

func (ConversionSucceeded) Kind() Kind { return KindConversionSucceeded }
func (ExportSucceeded) Kind() Kind     { return KindExportSucceeded }
func (SlotSaved) Kind() Kind           { return KindSlotSaved }
func (SlotLoaded) Kind() Kind          { return KindSlotLoaded }
func (SlotDeleted) Kind() Kind         { return KindSlotDeleted }
func (EmptyInput) Kind() Kind          { return KindEmptyInput }
func (InputTooLong) Kind() Kind        { return KindInputTooLong }
func (SlotQuotaExceeded) Kind() Kind   { return KindSlotQuotaExceeded }
func (NoFreeSlot) Kind() Kind          { return KindNoFreeSlot }
func (OutputTooLarge) Kind() Kind      { return KindOutputTooLarge }
func (EncodingFailed) Kind() Kind      { return KindEncodingFailed }
func (RenderParseFailed) Kind() Kind   { return KindRenderParseFailed }
func (RendererUnreachable) Kind() Kind { return KindRendererUnreachable }
func (RendererTimedOut) Kind() Kind    { return KindRendererTimedOut }
func (RendererRejected) Kind() Kind    { return KindRendererRejected }
func (SlotWriteFailed) Kind() Kind     { return KindSlotWriteFailed }
func (SlotReadFailed) Kind() Kind      { return KindSlotReadFailed }
func (SlotDeleteFailed) Kind() Kind    { return KindSlotDeleteFailed }

func (ConversionSucceeded) isCode() {}
func (ExportSucceeded) isCode()     {}
func (SlotSaved) isCode()           {}
func (SlotLoaded) isCode()          {}
func (SlotDeleted) isCode()         {}
func (EmptyInput) isCode()          {}
func (InputTooLong) isCode()        {}
func (SlotQuotaExceeded) isCode()   {}
func (NoFreeSlot) isCode()          {}
func (OutputTooLarge) isCode()      {}
func (EncodingFailed) isCode()      {}
func (RenderParseFailed) isCode()   {}
func (RendererUnreachable) isCode() {}
func (RendererTimedOut) isCode()    {}
func (RendererRejected) isCode()    {}
func (SlotWriteFailed) isCode()     {}
func (SlotReadFailed) isCode()      {}
func (SlotDeleteFailed) isCode()    {}

// SeverityOf maps a code to its severity. The mapping is a pure total
// function of the variant: field contents never influence it, and callers
// never supply a severity of their own.
func SeverityOf(c Code) Severity {
	switch c.Kind() {
	case KindConversionSucceeded, KindExportSucceeded,
		KindSlotSaved, KindSlotLoaded, KindSlotDeleted:
		return SeverityInfo
	case KindEmptyInput, KindInputTooLong,
		KindSlotQuotaExceeded, KindNoFreeSlot:
		return SeverityWarning
	case KindOutputTooLarge, KindEncodingFailed, KindRenderParseFailed,
		KindRendererUnreachable, KindRendererTimedOut, KindRendererRejected,
		KindSlotWriteFailed, KindSlotReadFailed, KindSlotDeleteFailed:
		return SeverityError
	}
	// Unreachable for the sealed set; an unknown code is treated as the
	// highest-impact class rather than dropped.
	return SeverityError
}

// MarshalCode serializes a code as {"kind": ..., <variant fields>...}.
func MarshalCode(c Code) ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["kind"] = c.Kind()
	return json.Marshal(fields)
}
