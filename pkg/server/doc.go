// SPDX-License-Identifier: Apache-2.0

// Package server exposes the local run history over HTTP: listing,
// retrieval, and integrity re-verification of stored benchmark runs,
// plus health probes and Prometheus metrics.
package server
