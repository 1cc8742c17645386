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

package orchestrator

import (
	"time"

	"github.com/pulse-bench/pulse/pkg/telemetry"
)

// RunResult captures one measured iteration. Immutable once produced;
// ownership passes to the caller, the analyzer consumes a list of them.
type RunResult struct {
	// Duration is the wall-clock time of the backend run call,
	// measured with the monotonic clock.
	Duration time.Duration `json:"duration_ns" yaml:"duration_ns"`

	// Tokens is the work-unit count reported by the workload.
	Tokens int `json:"tokens" yaml:"tokens"`

	// CPUBefore is the telemetry snapshot captured before execution.
	CPUBefore telemetry.Snapshot `json:"cpu_before" yaml:"cpu_before"`

	// CPUAfter is the telemetry snapshot captured after execution.
	CPUAfter telemetry.Snapshot `json:"cpu_after" yaml:"cpu_after"`

	// TimeSeries holds the sampler output bracketing the measured
	// interval. Empty when sampling is disabled.
	TimeSeries []telemetry.Sample `json:"time_series" yaml:"time_series"`
}

// Experiment describes an experiment configuration for reporting and
// integrity hashing.
type Experiment struct {
	Backend  string `json:"backend" yaml:"backend"`
	Workload string `json:"workload" yaml:"workload"`
	Runs     int    `json:"runs" yaml:"runs"`
	Warmup   int    `json:"warmup_runs" yaml:"warmup_runs"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
}
