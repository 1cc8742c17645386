package backend

import (
	"testing"

	"github.com/pulse-bench/pulse/pkg/errors"
	"github.com/pulse-bench/pulse/pkg/workload"
)

// unitsWorkload returns a fixed work-unit count, including negative
// values for validation tests.
type unitsWorkload struct {
	units int
}

func (u *unitsWorkload) Name() string     { return "units" }
func (u *unitsWorkload) Run() (int, error) { return u.units, nil }

func TestCPULifecycle(t *testing.T) {
	t.Parallel()

	c := NewCPU()
	if err := c.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer func() {
		if err := c.Teardown(); err != nil {
			t.Errorf("Teardown() error = %v", err)
		}
	}()

	units, err := c.Run(&unitsWorkload{units: 42})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if units != 42 {
		t.Errorf("Run() = %d, want 42", units)
	}
}

func TestCPURejectsNilWorkload(t *testing.T) {
	t.Parallel()

	_, err := NewCPU().Run(nil)
	if !errors.IsCode(err, errors.ErrCodeInvalidWorkload) {
		t.Errorf("error code = %v, want INVALID_WORKLOAD", errors.CodeOf(err))
	}
}

func TestCPURejectsNegativeUnits(t *testing.T) {
	t.Parallel()

	_, err := NewCPU().Run(&unitsWorkload{units: -1})
	if !errors.IsCode(err, errors.ErrCodeInvalidWorkUnits) {
		t.Errorf("error code = %v, want INVALID_WORK_UNITS", errors.CodeOf(err))
	}
}

func TestCPUDeviceInfo(t *testing.T) {
	t.Parallel()

	info := NewCPU().DeviceInfo()
	if info["backend"] != NameCPU {
		t.Errorf("backend = %v, want cpu", info["backend"])
	}
	if info["logical_cores"].(int) < 1 {
		t.Error("logical_cores should be at least 1")
	}
}

func TestCPUSupportsSampling(t *testing.T) {
	t.Parallel()

	if !NewCPU().SupportsSampling() {
		t.Error("cpu backend should support sampling")
	}
}

func TestCPURunsSyntheticWorkload(t *testing.T) {
	t.Parallel()

	units, err := NewCPU().Run(&workload.SyntheticText{MaxNewTokens: 5, WorkPerToken: 10})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if units <= 0 {
		t.Errorf("units = %d, want positive", units)
	}
}
