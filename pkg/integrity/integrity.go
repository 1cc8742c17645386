// Copyright (c) 2025, Pulse Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package integrity

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"

	"github.com/pulse-bench/pulse/pkg/errors"
)

// Field is the reserved payload key carrying the integrity envelope.
const Field = "integrity"

// Supported hash algorithms.
const (
	AlgSHA256 = "sha256"
	AlgSHA512 = "sha512"
)

// Envelope key names within the integrity field.
const (
	keyAlgorithm   = "hash_algorithm"
	keyFingerprint = "fingerprint"
)

// Verification status values.
const (
	StatusValid    = "VALID"
	StatusTampered = "TAMPERED"
)

// Report is the detailed outcome of a verification.
type Report struct {
	Verified    bool   `json:"verified" yaml:"verified"`
	Algorithm   string `json:"algorithm" yaml:"algorithm"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Status      string `json:"status" yaml:"status"`
}

// Hasher computes and verifies canonical fingerprints over report
// payloads.
type Hasher struct {
	algorithm string
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithAlgorithm selects the hash algorithm.
func WithAlgorithm(alg string) Option {
	return func(h *Hasher) {
		if alg != "" {
			h.algorithm = alg
		}
	}
}

// New creates a Hasher, defaulting to SHA-256.
func New(opts ...Option) (*Hasher, error) {
	h := &Hasher{algorithm: AlgSHA256}
	for _, opt := range opts {
		opt(h)
	}
	if _, err := newDigest(h.algorithm); err != nil {
		return nil, err
	}
	return h, nil
}

func newDigest(algorithm string) (hash.Hash, error) {
	switch algorithm {
	case AlgSHA256:
		return sha256.New(), nil
	case AlgSHA512:
		return sha512.New(), nil
	default:
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"unsupported hash algorithm",
			map[string]any{"algorithm": algorithm})
	}
}

// CanonicalJSON encodes a payload into deterministic bytes: UTF-8,
// object keys sorted lexicographically at every nesting level, no
// extraneous whitespace, numbers rendered exactly as the standard
// encoder emits them. Two payloads with the same content hash
// identically regardless of field order or whether they started life as
// structs or decoded maps.
func CanonicalJSON(payload any) ([]byte, error) {
	normalized, err := normalize(payload)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, fmt.Errorf("failed to canonicalize payload: %w", err)
	}

	// Encoder appends a trailing newline.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// normalize round-trips the payload through JSON into generic maps with
// number literals preserved verbatim. Re-encoding the result renders
// each number with the exact text of the first encoding, so the hash is
// stable across marshal/unmarshal cycles.
func normalize(payload any) (any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var normalized any
	if err := dec.Decode(&normalized); err != nil {
		return nil, fmt.Errorf("failed to normalize payload: %w", err)
	}
	return normalized, nil
}

// Fingerprint computes the hex fingerprint of the payload's canonical
// encoding.
func (h *Hasher) Fingerprint(payload any) (string, error) {
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		return "", err
	}

	d, err := newDigest(h.algorithm)
	if err != nil {
		return "", err
	}
	d.Write(canonical)
	return hex.EncodeToString(d.Sum(nil)), nil
}

// Attach computes the payload's fingerprint and returns a copy of the
// payload with the integrity envelope set under the reserved field. The
// input map is not modified.
func (h *Hasher) Attach(payload map[string]any) (map[string]any, error) {
	fingerprint, err := h.Fingerprint(payload)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out[Field] = map[string]any{
		keyAlgorithm:   h.algorithm,
		keyFingerprint: fingerprint,
	}
	return out, nil
}

// Verify recomputes the fingerprint of the payload minus its integrity
// envelope and compares it to the stored one. A missing envelope is an
// error; a mismatching fingerprint is a negative result, not an error.
// The stored algorithm is used for recomputation so payloads hashed
// with a different configuration still verify.
func (h *Hasher) Verify(payload map[string]any) (bool, error) {
	algorithm, stored, err := envelope(payload)
	if err != nil {
		return false, err
	}

	stripped := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == Field {
			continue
		}
		stripped[k] = v
	}

	verifier := &Hasher{algorithm: algorithm}
	actual, err := verifier.Fingerprint(stripped)
	if err != nil {
		return false, err
	}

	return actual == stored, nil
}

// Report verifies the payload and returns the detailed outcome.
func (h *Hasher) Report(payload map[string]any) (*Report, error) {
	valid, err := h.Verify(payload)
	if err != nil {
		return nil, err
	}

	algorithm, fingerprint, err := envelope(payload)
	if err != nil {
		return nil, err
	}

	status := StatusValid
	if !valid {
		status = StatusTampered
	}

	return &Report{
		Verified:    valid,
		Algorithm:   algorithm,
		Fingerprint: fingerprint,
		Status:      status,
	}, nil
}

// envelope extracts the algorithm and fingerprint from the payload's
// integrity field, tolerating both freshly attached and JSON-decoded
// shapes.
func envelope(payload map[string]any) (algorithm, fingerprint string, err error) {
	raw, ok := payload[Field]
	if !ok {
		return "", "", errors.New(errors.ErrCodeMissingIntegrity,
			"no integrity metadata found in payload")
	}

	block, ok := raw.(map[string]any)
	if !ok {
		return "", "", errors.New(errors.ErrCodeMissingIntegrity,
			"integrity metadata is malformed")
	}

	algorithm, _ = block[keyAlgorithm].(string)
	fingerprint, _ = block[keyFingerprint].(string)
	if algorithm == "" || fingerprint == "" {
		return "", "", errors.New(errors.ErrCodeMissingIntegrity,
			"integrity metadata is incomplete")
	}
	return algorithm, fingerprint, nil
}
