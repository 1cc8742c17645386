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
	"github.com/pulse-bench/pulse/pkg/workload"
)

// Built-in backend names.
const (
	NameCPU = "cpu"
	NameGPU = "gpu"
)

// Backend is a hardware execution target capable of running workloads
// under orchestration. Implementations conform to this capability
// interface; there is no inheritance, just interface conformance per
// device class.
type Backend interface {
	// Name identifies the backend (cpu, gpu, ...).
	Name() string

	// Setup prepares the backend before execution. Safe to call on an
	// already prepared backend.
	Setup() error

	// Run executes the workload and returns the completed work units.
	Run(w workload.Workload) (int, error)

	// Teardown releases backend resources. Must succeed safely even
	// after a failure; its error never masks the primary failure.
	Teardown() error

	// Synchronize blocks until outstanding device work completes.
	// A no-op for synchronous devices.
	Synchronize() error

	// DeviceInfo returns hardware metadata for reporting.
	DeviceInfo() map[string]any

	// SupportsSampling reports whether fine-grained telemetry sampling
	// is meaningful while this backend executes.
	SupportsSampling() bool
}
