// SPDX-License-Identifier: Apache-2.0

// Package environment captures the runtime environment metadata that
// makes a profiling run reproducible: host identity, CPU and memory
// capacity, accelerator inventory, runtime versions, and an allowlisted
// subset of environment variables.
package environment
