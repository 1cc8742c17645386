/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package stats provides deterministic statistical aggregation used
// across the pulse analysis pipeline.
//
// All functions are pure: stable results across runs, safe handling of
// small datasets, and backend-comparable metrics. Aggregation applies
// the safeguards benchmarking needs (sample stddev only for n >= 2,
// normal-approximation confidence intervals, zero-mean guards).
package stats
