package integrity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-bench/pulse/pkg/errors"
)

func testPayload() map[string]any {
	return map[string]any{
		"run_id": "pulse-test",
		"result": map[string]any{
			"efficiency_score": 2.0,
			"throughput":       100.5,
			"stability":        0.95,
		},
		"experiment": map[string]any{
			"backend": "cpu",
			"runs":    5,
		},
	}
}

func TestAttachAndVerify(t *testing.T) {
	t.Parallel()

	h, err := New()
	require.NoError(t, err)

	signed, err := h.Attach(testPayload())
	require.NoError(t, err)

	env, ok := signed[Field].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, AlgSHA256, env["hash_algorithm"])
	assert.Len(t, env["fingerprint"], 64)

	valid, err := h.Verify(signed)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestAttachDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	h, err := New()
	require.NoError(t, err)

	payload := testPayload()
	_, err = h.Attach(payload)
	require.NoError(t, err)

	assert.NotContains(t, payload, Field)
}

func TestVerifyDetectsTampering(t *testing.T) {
	t.Parallel()

	h, err := New()
	require.NoError(t, err)

	signed, err := h.Attach(testPayload())
	require.NoError(t, err)

	// mutate a nested value after signing
	signed["result"].(map[string]any)["efficiency_score"] = 99.0

	valid, err := h.Verify(signed)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyMissingEnvelope(t *testing.T) {
	t.Parallel()

	h, err := New()
	require.NoError(t, err)

	_, err = h.Verify(testPayload())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingIntegrity))
}

func TestVerifySurvivesSerializationRoundTrip(t *testing.T) {
	t.Parallel()

	h, err := New()
	require.NoError(t, err)

	signed, err := h.Attach(testPayload())
	require.NoError(t, err)

	// persist and reload the report as JSON, the way the report layer
	// stores artifacts
	raw, err := json.MarshalIndent(signed, "", "  ")
	require.NoError(t, err)

	var reloaded map[string]any
	require.NoError(t, json.Unmarshal(raw, &reloaded))

	valid, err := h.Verify(reloaded)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestCanonicalJSONOrderIndependence(t *testing.T) {
	t.Parallel()

	a := map[string]any{"b": 2, "a": 1, "nested": map[string]any{"y": 2, "x": 1}}
	b := map[string]any{"nested": map[string]any{"x": 1, "y": 2}, "a": 1, "b": 2}

	ca, err := CanonicalJSON(a)
	require.NoError(t, err)
	cb, err := CanonicalJSON(b)
	require.NoError(t, err)

	assert.Equal(t, ca, cb)
	assert.Equal(t, `{"a":1,"b":2,"nested":{"x":1,"y":2}}`, string(ca))
}

func TestSHA512Algorithm(t *testing.T) {
	t.Parallel()

	h, err := New(WithAlgorithm(AlgSHA512))
	require.NoError(t, err)

	signed, err := h.Attach(testPayload())
	require.NoError(t, err)

	env := signed[Field].(map[string]any)
	assert.Equal(t, AlgSHA512, env["hash_algorithm"])
	assert.Len(t, env["fingerprint"], 128)

	// a default hasher still verifies it using the stored algorithm
	def, err := New()
	require.NoError(t, err)
	valid, err := def.Verify(signed)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestUnsupportedAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := New(WithAlgorithm("md5"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestReportStatus(t *testing.T) {
	t.Parallel()

	h, err := New()
	require.NoError(t, err)

	signed, err := h.Attach(testPayload())
	require.NoError(t, err)

	rep, err := h.Report(signed)
	require.NoError(t, err)
	assert.True(t, rep.Verified)
	assert.Equal(t, StatusValid, rep.Status)
	assert.Equal(t, AlgSHA256, rep.Algorithm)

	signed["run_id"] = "altered"
	rep, err = h.Report(signed)
	require.NoError(t, err)
	assert.False(t, rep.Verified)
	assert.Equal(t, StatusTampered, rep.Status)
}
