package gateway

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"umlgate/internal/result"
	"umlgate/internal/storage"
	"umlgate/internal/testutil"
)

func newTestServer(t *testing.T, renderer Renderer) *Server {
	t.Helper()
	clock := testutil.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	slots := storage.NewWithClock(storage.NewMemoryBackend(), clock)
	svc := NewService(renderer, quietLogger())
	return NewServer(svc, slots, quietLogger(), language.English)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelopeBody struct {
	Severity string          `json:"severity"`
	Code     json.RawMessage `json:"code"`
	Message  string          `json:"message"`
	Payload  string          `json:"payload"`
	Content  *string         `json:"content"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var body envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func codeKind(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var code struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(raw, &code))
	return code.Kind
}

func TestConvertEndpoint(t *testing.T) {
	h := newTestServer(t, &fakeRenderer{data: pngBytes}).Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/convert", map[string]string{
		"source_text": "@startuml\nA -> B\n@enduml",
		"format":      "png",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "INFO", body.Severity)
	assert.Equal(t, "CONVERSION_OK", codeKind(t, body.Code))
	assert.NotEmpty(t, body.Message)

	data, err := base64.StdEncoding.DecodeString(body.Payload)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestConvertEndpointRejectionStaysHTTP200(t *testing.T) {
	h := newTestServer(t, &fakeRenderer{data: pngBytes}).Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/convert", map[string]string{
		"source_text": "   ",
		"format":      "png",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "WARNING", body.Severity)
	assert.Equal(t, "EMPTY_INPUT", codeKind(t, body.Code))
	assert.Empty(t, body.Payload)
}

func TestConvertEndpointRendererFailureStaysHTTP200(t *testing.T) {
	renderer := &fakeRenderer{err: result.Fail(result.RendererUnreachable{Endpoint: "http://renderer:8081"})}
	h := newTestServer(t, renderer).Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/convert", map[string]string{
		"source_text": "@startuml\n@enduml",
		"format":      "png",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "ERROR", body.Severity)
	assert.Equal(t, "RENDERER_UNREACHABLE", codeKind(t, body.Code))
}

func TestExportEndpoint(t *testing.T) {
	h := newTestServer(t, &fakeRenderer{data: pngBytes}).Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/export", map[string]string{
		"source_text": "@startuml\n@enduml",
		"format":      "svg",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EXPORT_OK", codeKind(t, decodeEnvelope(t, rec).Code))
}

func TestConvertEndpointBadRequests(t *testing.T) {
	h := newTestServer(t, &fakeRenderer{data: pngBytes}).Routes()

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/v1/convert", map[string]string{
			"source_text": "@startuml\n@enduml",
			"format":      "gif",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t, &fakeRenderer{data: pngBytes}).Routes()

	rec := doJSON(t, h, http.MethodGet, "/api/v1/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, serviceName, body["service"])
}

func TestSlotLifecycleOverHTTP(t *testing.T) {
	h := newTestServer(t, &fakeRenderer{data: pngBytes}).Routes()
	text := "@startuml\ntitle Checkout\nA -> B\n@enduml"

	rec := doJSON(t, h, http.MethodPut, "/api/v1/slots/3", map[string]string{"source_text": text})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SLOT_SAVED", codeKind(t, decodeEnvelope(t, rec).Code))

	rec = doJSON(t, h, http.MethodGet, "/api/v1/slots/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "SLOT_LOADED", codeKind(t, body.Code))
	require.NotNil(t, body.Content)
	assert.Equal(t, text, *body.Content)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/slots", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Slots []storage.SlotInfo `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Slots, 1)
	assert.Equal(t, 3, listing.Slots[0].Slot)
	assert.Equal(t, storage.PlaceholderTitle, listing.Slots[0].Title)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/slots/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SLOT_DELETED", codeKind(t, decodeEnvelope(t, rec).Code))

	rec = doJSON(t, h, http.MethodGet, "/api/v1/slots/3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSlotEndpointOutOfRange(t *testing.T) {
	h := newTestServer(t, &fakeRenderer{data: pngBytes}).Routes()

	rec := doJSON(t, h, http.MethodPut, "/api/v1/slots/11", map[string]string{"source_text": "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "ERROR", body.Severity)
	assert.Equal(t, "SLOT_WRITE_FAILED", codeKind(t, body.Code))

	rec = doJSON(t, h, http.MethodPut, "/api/v1/slots/abc", map[string]string{"source_text": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocalizedMessages(t *testing.T) {
	clock := testutil.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	slots := storage.NewWithClock(storage.NewMemoryBackend(), clock)
	svc := NewService(&fakeRenderer{data: pngBytes}, quietLogger())
	h := NewServer(svc, slots, quietLogger(), language.Japanese).Routes()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/convert", map[string]string{
		"source_text": "",
		"format":      "png",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, result.MessageIn(language.Japanese, result.EmptyInput{}), body.Message)
}
