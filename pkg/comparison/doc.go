// SPDX-License-Identifier: Apache-2.0

// Package comparison executes identical experiments across multiple
// compute backends and produces normalized, ranked comparison results
// with a final recommendation.
package comparison
