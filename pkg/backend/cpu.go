// Copyright (c) 2025, Pulse Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"fmt"
	"runtime"

	"github.com/pulse-bench/pulse/pkg/errors"
	"github.com/pulse-bench/pulse/pkg/telemetry"
	"github.com/pulse-bench/pulse/pkg/workload"
)

// CPU is the reference execution backend. It acts as the baseline for
// all heterogeneous comparisons.
type CPU struct {
	source *telemetry.SystemSource
}

// NewCPU creates a CPU backend.
func NewCPU() *CPU {
	return &CPU{source: telemetry.NewSystemSource()}
}

// Name implements Backend.
func (c *CPU) Name() string { return NameCPU }

// Setup implements Backend. CPU execution needs minimal preparation but
// the telemetry counters are primed here so the first measured reading
// reflects a real interval.
func (c *CPU) Setup() error {
	c.source.Stabilize()
	return nil
}

// Run implements Backend, executing the workload synchronously.
func (c *CPU) Run(w workload.Workload) (int, error) {
	if w == nil {
		return 0, errors.New(errors.ErrCodeInvalidWorkload, "workload must be invocable")
	}

	units, err := w.Run()
	if err != nil {
		return 0, fmt.Errorf("workload execution failed: %w", err)
	}

	// CPU execution is synchronous; the explicit barrier is kept for
	// parity with asynchronous devices.
	if err := c.Synchronize(); err != nil {
		return 0, err
	}

	if units < 0 {
		return 0, errors.NewWithContext(errors.ErrCodeInvalidWorkUnits,
			"workload must return a non-negative work-unit count",
			map[string]any{"units": units})
	}

	return units, nil
}

// Teardown implements Backend. No resources to release; exists for
// interface symmetry.
func (c *CPU) Teardown() error { return nil }

// Synchronize implements Backend. CPU execution is blocking.
func (c *CPU) Synchronize() error { return nil }

// SupportsSampling implements Backend.
func (c *CPU) SupportsSampling() bool { return true }

// DeviceInfo implements Backend.
func (c *CPU) DeviceInfo() map[string]any {
	return map[string]any{
		"backend":       NameCPU,
		"architecture":  runtime.GOARCH,
		"os":            runtime.GOOS,
		"logical_cores": runtime.NumCPU(),
		"go_max_procs":  runtime.GOMAXPROCS(0),
	}
}
