// SPDX-License-Identifier: Apache-2.0

// Package history stores signed report payloads in an embedded
// key-value database so past runs can be listed, reloaded, and
// re-verified long after the report files are gone.
package history
