// SPDX-License-Identifier: Apache-2.0

// Package cli implements the pulse command line interface: run,
// compare, backends, verify, and history commands over the
// benchmarking core.
package cli
