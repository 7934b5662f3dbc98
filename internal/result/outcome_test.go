package result

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDerivesSeverity(t *testing.T) {
	for _, c := range sampleCodes() {
		o := New(c)
		assert.Equal(t, SeverityOf(c), o.Severity, "kind %s", c.Kind())
		assert.Nil(t, o.Payload)
	}
}

func TestWithPayload(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4E, 0x47}
	o := WithPayload(ConversionSucceeded{}, png)

	assert.True(t, o.OK())
	assert.Equal(t, png, o.Payload)
}

func TestFromError(t *testing.T) {
	o := FromError(Fail(RendererUnreachable{Endpoint: "http://localhost:8081"}))
	assert.Equal(t, KindRendererUnreachable, o.Code.Kind())
	assert.Equal(t, SeverityError, o.Severity)

	// An error without a taxonomy code is a producer bug; it must still map
	// to a classified failure rather than leak.
	o = FromError(assert.AnError)
	assert.Equal(t, KindRenderParseFailed, o.Code.Kind())
}

func TestOutcomeEnvelopeJSON(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4E, 0x47}
	o := WithPayload(ConversionSucceeded{}, payload)

	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var env struct {
		Severity string `json:"severity"`
		Code     map[string]any
		Payload  string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))

	assert.Equal(t, "INFO", env.Severity)
	assert.Equal(t, "CONVERSION_OK", env.Code["kind"])

	decoded, err := base64.StdEncoding.DecodeString(env.Payload)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestOutcomeEnvelopeOmitsAbsentPayload(t *testing.T) {
	raw, err := json.Marshal(New(InputTooLong{Actual: 24001, Max: 24000}))
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal(raw, &env))

	assert.Equal(t, "WARNING", env["severity"])
	assert.NotContains(t, env, "payload")

	code, ok := env["code"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INPUT_TOO_LONG", code["kind"])
	assert.Equal(t, float64(24001), code["actual"])
	assert.Equal(t, float64(24000), code["max"])
}
