package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-bench/pulse/pkg/errors"
	"github.com/pulse-bench/pulse/pkg/integrity"
)

func signedAnalysisPayload(t *testing.T, runID string, efficiency, throughput float64) map[string]any {
	t.Helper()

	h, err := integrity.New()
	require.NoError(t, err)

	payload, err := h.Attach(map[string]any{
		"run_id":        runID,
		"timestamp_utc": "2025-06-01T12:00:00Z",
		"result": map[string]any{
			"analysis": map[string]any{
				"efficiency_score":          efficiency,
				"throughput_tokens_per_sec": throughput,
				"energy_per_1k_tokens_proxy": 500.0,
				"stability_score":           0.9,
			},
		},
	})
	require.NoError(t, err)
	return payload
}

func TestDiff(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(signedAnalysisPayload(t, "pulse-base", 2.0, 100)))
	require.NoError(t, s.Put(signedAnalysisPayload(t, "pulse-cand", 3.0, 150)))

	d, err := s.Diff("pulse-base", "pulse-cand")
	require.NoError(t, err)

	assert.Equal(t, "pulse-base", d.BaselineRunID)
	assert.Equal(t, "pulse-cand", d.CandidateRunID)
	require.Contains(t, d.Metrics, "efficiency_score")

	eff := d.Metrics["efficiency_score"]
	assert.Equal(t, 2.0, eff.Baseline)
	assert.Equal(t, 3.0, eff.Candidate)
	assert.InDelta(t, 50.0, eff.ChangePercent, 1e-9)

	thr := d.Metrics["throughput_tokens_per_sec"]
	assert.InDelta(t, 50.0, thr.ChangePercent, 1e-9)

	// unchanged metric reports zero change
	assert.InDelta(t, 0.0, d.Metrics["stability_score"].ChangePercent, 1e-9)
}

func TestDiffUnknownRun(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Put(signedAnalysisPayload(t, "pulse-only", 1, 1)))

	_, err := s.Diff("pulse-only", "pulse-ghost")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestDiffMissingMetricsSkipped(t *testing.T) {
	s := openTestStore(t)

	h, err := integrity.New()
	require.NoError(t, err)
	sparse, err := h.Attach(map[string]any{
		"run_id":        "pulse-sparse",
		"timestamp_utc": "2025-06-01T12:00:00Z",
		"result":        map[string]any{"note": "no analysis block"},
	})
	require.NoError(t, err)

	require.NoError(t, s.Put(sparse))
	require.NoError(t, s.Put(signedAnalysisPayload(t, "pulse-full", 2, 100)))

	d, err := s.Diff("pulse-sparse", "pulse-full")
	require.NoError(t, err)
	assert.Empty(t, d.Metrics)
}
