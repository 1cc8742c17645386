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

package telemetry

import "time"

// Sample is a single point-in-time utilization reading produced by the
// background sampler.
type Sample struct {
	// Timestamp is the wall-clock capture time.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// CPUUtilPercent is the system-wide CPU utilization at capture time.
	CPUUtilPercent float64 `json:"cpu_util_percent" yaml:"cpu_util_percent"`

	// GPUUtilPercent is the GPU utilization at capture time, 0 when no
	// accelerator is available.
	GPUUtilPercent float64 `json:"gpu_util_percent" yaml:"gpu_util_percent"`
}

// Snapshot is a fuller system telemetry capture taken at the boundaries
// of a measured iteration (before and after the workload runs).
type Snapshot struct {
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	CPUPercent    float64   `json:"cpu_percent" yaml:"cpu_percent"`
	GPUPercent    float64   `json:"gpu_percent" yaml:"gpu_percent"`
	MemoryUsedMB  float64   `json:"memory_usage_mb" yaml:"memory_usage_mb"`
	MemoryPercent float64   `json:"memory_percent" yaml:"memory_percent"`
	Load1         float64   `json:"load_avg_1m" yaml:"load_avg_1m"`
	Load5         float64   `json:"load_avg_5m" yaml:"load_avg_5m"`
	Load15        float64   `json:"load_avg_15m" yaml:"load_avg_15m"`
}

// Source provides utilization readings for the sampler and the
// orchestrator's boundary snapshots. Implementations must be safe for
// concurrent use: the sampler goroutine and the experiment foreground
// read from the same source.
type Source interface {
	// CPUUtilization returns system-wide CPU utilization in percent.
	CPUUtilization() float64

	// GPUUtilization returns GPU utilization in percent, 0 when
	// unavailable.
	GPUUtilization() float64
}

// Snapshotter is an optional interface a Source can implement to provide
// richer boundary snapshots (memory, load averages).
type Snapshotter interface {
	Snapshot() Snapshot
}

// CaptureSnapshot takes a boundary snapshot from the source, falling
// back to a utilization-only snapshot when the source does not implement
// Snapshotter.
func CaptureSnapshot(src Source) Snapshot {
	if ss, ok := src.(Snapshotter); ok {
		return ss.Snapshot()
	}
	return Snapshot{
		Timestamp:  time.Now().UTC(),
		CPUPercent: src.CPUUtilization(),
		GPUPercent: src.GPUUtilization(),
	}
}

// StaticSource returns fixed utilization readings. Intended for tests
// and for environments where live telemetry is unavailable.
type StaticSource struct {
	CPU float64
	GPU float64
}

// CPUUtilization implements Source.
func (s *StaticSource) CPUUtilization() float64 { return s.CPU }

// GPUUtilization implements Source.
func (s *StaticSource) GPUUtilization() float64 { return s.GPU }
