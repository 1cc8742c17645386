package environment

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture(t *testing.T) {
	t.Parallel()

	snap, err := Capture(t.Context())
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, runtime.GOOS, snap.System.Platform)
	assert.Equal(t, runtime.GOARCH, snap.CPU.Architecture)
	assert.Equal(t, runtime.NumCPU(), snap.CPU.LogicalCores)
	assert.Equal(t, runtime.Version(), snap.Software.GoVersion)
	assert.NotNil(t, snap.EnvironmentVariables)

	if runtime.GOOS == "linux" {
		assert.Positive(t, snap.Memory.TotalGB)
		assert.NotEmpty(t, snap.System.PlatformRelease)
	}
}

func TestCaptureEnvVarsAllowlist(t *testing.T) {
	t.Setenv("OMP_NUM_THREADS", "4")
	t.Setenv("PULSE_SECRET_TOKEN", "do-not-capture")

	env := captureEnvVars()

	assert.Equal(t, "4", env["OMP_NUM_THREADS"])
	assert.NotContains(t, env, "PULSE_SECRET_TOKEN")
}

func TestGPUUnavailableIsEmptyNotError(t *testing.T) {
	t.Parallel()

	gpu := captureGPU(t.Context())
	if !gpu.Available {
		assert.Zero(t, gpu.DeviceCount)
		assert.Empty(t, gpu.Devices)
	} else {
		assert.Equal(t, len(gpu.Devices), gpu.DeviceCount)
	}
}

func TestRoundGB(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, roundGB(1<<30))
	assert.Equal(t, 0.5, roundGB(1<<29))
	assert.Equal(t, 0.0, roundGB(0))
}
