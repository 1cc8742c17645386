// SPDX-License-Identifier: Apache-2.0

// Package analyzer turns raw experiment runs into statistically valid
// efficiency insights: aggregated latency/token/CPU statistics, derived
// throughput and efficiency scores, a sustainability energy proxy, and
// a duration-based stability score. Outliers beyond a configurable
// stddev threshold are removed before aggregation.
package analyzer
