package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-bench/pulse/pkg/errors"
	"github.com/pulse-bench/pulse/pkg/integrity"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func signedPayload(t *testing.T, runID string) map[string]any {
	t.Helper()

	h, err := integrity.New()
	require.NoError(t, err)

	payload, err := h.Attach(map[string]any{
		"run_id":        runID,
		"timestamp_utc": "2025-06-01T12:00:00Z",
		"result":        map[string]any{"efficiency_score": 2.0},
	})
	require.NoError(t, err)
	return payload
}

func TestPutAndGet(t *testing.T) {
	s := openTestStore(t)

	payload := signedPayload(t, "pulse-abc")
	require.NoError(t, s.Put(payload))

	loaded, err := s.Get("pulse-abc")
	require.NoError(t, err)
	assert.Equal(t, "pulse-abc", loaded["run_id"])
	assert.Contains(t, loaded, integrity.Field)
}

func TestGetUnknownRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("pulse-missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestPutRejectsUnsignedPayload(t *testing.T) {
	s := openTestStore(t)

	err := s.Put(map[string]any{"run_id": "pulse-x"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingIntegrity))

	err = s.Put(map[string]any{"result": "no id"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestVerifyStoredRun(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(signedPayload(t, "pulse-v")))

	rep, err := s.Verify("pulse-v")
	require.NoError(t, err)
	assert.True(t, rep.Verified)
	assert.Equal(t, integrity.StatusValid, rep.Status)
}

func TestVerifyDetectsTamperedRun(t *testing.T) {
	s := openTestStore(t)

	payload := signedPayload(t, "pulse-t")
	payload["result"] = map[string]any{"efficiency_score": 99.0}
	require.NoError(t, s.Put(payload))

	rep, err := s.Verify("pulse-t")
	require.NoError(t, err)
	assert.False(t, rep.Verified)
	assert.Equal(t, integrity.StatusTampered, rep.Status)
}

func TestList(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(signedPayload(t, "pulse-a")))
	require.NoError(t, s.Put(signedPayload(t, "pulse-b")))

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "pulse-a", entries[0].RunID)
	assert.Equal(t, "pulse-b", entries[1].RunID)
	assert.Equal(t, "2025-06-01T12:00:00Z", entries[0].Timestamp)
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)

	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(signedPayload(t, "pulse-d")))
	require.NoError(t, s.Delete("pulse-d"))

	_, err := s.Get("pulse-d")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))

	// deleting an unknown run is a no-op
	require.NoError(t, s.Delete("pulse-never"))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(signedPayload(t, "pulse-p")))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	loaded, err := s.Get("pulse-p")
	require.NoError(t, err)
	assert.Equal(t, "pulse-p", loaded["run_id"])
}
