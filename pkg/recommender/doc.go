// SPDX-License-Identifier: Apache-2.0

// Package recommender generates explainable backend recommendations
// from analyzed efficiency, performance, and stability metrics. All
// functions are pure: no I/O, no side effects, deterministic output for
// identical input.
package recommender
