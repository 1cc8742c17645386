package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-bench/pulse/pkg/integrity"
)

func writeSignedReport(t *testing.T, mutate func(map[string]any)) string {
	t.Helper()

	h, err := integrity.New()
	require.NoError(t, err)

	payload, err := h.Attach(map[string]any{
		"run_id": "pulse-cli-test",
		"result": map[string]any{"efficiency_score": 2.0},
	})
	require.NoError(t, err)

	if mutate != nil {
		mutate(payload)
	}

	raw, err := json.MarshalIndent(payload, "", "  ")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func runVerify(t *testing.T, reportPath string) error {
	t.Helper()

	prevFormat, prevOutput := format, output
	format = "json"
	output = filepath.Join(t.TempDir(), "out.json")
	t.Cleanup(func() { format, output = prevFormat, prevOutput })

	return verifyCmd.RunE(verifyCmd, []string{reportPath})
}

func TestVerifyCommandValidReport(t *testing.T) {
	path := writeSignedReport(t, nil)
	assert.NoError(t, runVerify(t, path))
}

func TestVerifyCommandTamperedReport(t *testing.T) {
	path := writeSignedReport(t, func(p map[string]any) {
		p["run_id"] = "altered"
	})

	err := runVerify(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), integrity.StatusTampered)
}

func TestVerifyCommandMissingFile(t *testing.T) {
	err := runVerify(t, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
