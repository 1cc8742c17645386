// SPDX-License-Identifier: Apache-2.0

// Package integrity provides cryptographic fingerprints for experiment
// reports. Payloads are canonicalized to a deterministic JSON encoding
// (sorted keys, no whitespace, stable number rendering) before hashing,
// so independently produced serializations of the same report agree
// bit-for-bit.
package integrity
