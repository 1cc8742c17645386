/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package backend defines the hardware abstraction the orchestrator
// drives: a capability interface (setup, run, teardown, synchronize,
// device info, sampling support) with CPU and GPU conformers, and an
// explicit thread-safe Registry of backend constructors that is built
// at startup and passed to whatever needs backend lookup.
package backend
