// SPDX-License-Identifier: Apache-2.0

// Package report assembles verifiable experiment artifacts: a payload
// with run identity, environment context, and results, fingerprinted by
// the integrity layer, persisted as JSON plus a flattened CSV summary.
// It also renders results for terminal display in JSON, YAML, or table
// form.
package report
