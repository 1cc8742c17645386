/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package telemetry provides system utilization readings for workload
// profiling: point-in-time boundary snapshots and a background sampler
// producing a time series while a workload runs.
//
// The live SystemSource reads CPU utilization from /proc/stat deltas,
// memory and load from procfs, and GPU utilization from nvidia-smi when
// present. On platforms without these facilities every reading degrades
// to 0 rather than failing, since missing telemetry must not abort a
// benchmark.
//
// The Sampler owns the only background concurrency in the core. Its
// buffer is mutex-guarded and readers always receive a copy; Stop joins
// the sampling goroutine so no sample can land after it returns.
package telemetry
