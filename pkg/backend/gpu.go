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
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pulse-bench/pulse/pkg/errors"
	"github.com/pulse-bench/pulse/pkg/workload"
)

const smiQueryTimeout = 3 * time.Second

// GPU is the accelerator execution backend. Device discovery and
// metadata go through nvidia-smi; the workload itself owns moving work
// onto the device, so the barrier at this layer is a no-op.
type GPU struct {
	smiPath string
}

// NewGPU creates a GPU backend.
func NewGPU() *GPU {
	return &GPU{}
}

// Name implements Backend.
func (g *GPU) Name() string { return NameGPU }

// Setup implements Backend, failing when no NVIDIA device is reachable.
func (g *GPU) Setup() error {
	path, err := exec.LookPath("nvidia-smi")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSetupFailed,
			"gpu backend requested but no NVIDIA device tooling available", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), smiQueryTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, path, "-L").Run(); err != nil {
		return errors.Wrap(errors.ErrCodeSetupFailed,
			"nvidia-smi present but device enumeration failed", err)
	}

	g.smiPath = path
	return nil
}

// Run implements Backend.
func (g *GPU) Run(w workload.Workload) (int, error) {
	if w == nil {
		return 0, errors.New(errors.ErrCodeInvalidWorkload, "workload must be invocable")
	}

	// Drain outstanding device work so the timing boundary is clean.
	if err := g.Synchronize(); err != nil {
		return 0, err
	}

	units, err := w.Run()
	if err != nil {
		return 0, fmt.Errorf("workload execution failed: %w", err)
	}

	if err := g.Synchronize(); err != nil {
		return 0, err
	}

	if units < 0 {
		return 0, errors.NewWithContext(errors.ErrCodeInvalidWorkUnits,
			"workload must return a non-negative work-unit count",
			map[string]any{"units": units})
	}

	return units, nil
}

// Teardown implements Backend.
func (g *GPU) Teardown() error {
	g.smiPath = ""
	return nil
}

// Synchronize implements Backend. The device barrier is owned by the
// workload runtime; nothing to drain at this layer.
func (g *GPU) Synchronize() error { return nil }

// SupportsSampling implements Backend.
func (g *GPU) SupportsSampling() bool { return true }

// DeviceInfo implements Backend, returning smi-reported metadata or an
// unavailable marker when the backend has not been set up.
func (g *GPU) DeviceInfo() map[string]any {
	if g.smiPath == "" {
		return map[string]any{
			"backend":   NameGPU,
			"available": false,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), smiQueryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, g.smiPath,
		"--query-gpu=name,memory.total,driver_version",
		"--format=csv,noheader").Output()
	if err != nil {
		return map[string]any{
			"backend":   NameGPU,
			"available": false,
		}
	}

	devices := make([]map[string]string, 0)
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		parts := strings.SplitN(line, ",", 3)
		if len(parts) != 3 {
			continue
		}
		devices = append(devices, map[string]string{
			"name":           strings.TrimSpace(parts[0]),
			"memory_total":   strings.TrimSpace(parts[1]),
			"driver_version": strings.TrimSpace(parts[2]),
		})
	}

	return map[string]any{
		"backend":      NameGPU,
		"available":    true,
		"device_count": len(devices),
		"devices":      devices,
	}
}
