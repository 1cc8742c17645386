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

package history

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"

	"github.com/pulse-bench/pulse/pkg/errors"
	"github.com/pulse-bench/pulse/pkg/integrity"
)

// DefaultDir is the default on-disk location for the run history.
const DefaultDir = ".pulse/history"

const keyPrefix = "report:"

// Entry is a lightweight listing of a stored run.
type Entry struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	Timestamp string `json:"timestamp_utc" yaml:"timestamp_utc"`
}

// Store persists signed report payloads in an embedded key-value
// database. Values are zstd-compressed JSON; integrity envelopes travel
// with the payload so stored runs stay independently verifiable.
type Store struct {
	db      *badger.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	hasher  *integrity.Hasher
}

// Option configures a Store.
type Option func(*Store)

// WithHasher overrides the integrity hasher used for verification.
func WithHasher(h *integrity.Hasher) Option {
	return func(s *Store) {
		if h != nil {
			s.hasher = h
		}
	}
}

// Open opens (or creates) the history database at dir.
func Open(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}

	badgerOpts := badger.DefaultOptions(dir)
	badgerOpts.Logger = nil

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database at %q: %w", dir, err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}

	hasher, err := integrity.New()
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:      db,
		encoder: encoder,
		decoder: decoder,
		hasher:  hasher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Put stores a signed report payload keyed by its run ID. Payloads
// without an integrity envelope are rejected: the history only holds
// verifiable runs.
func (s *Store) Put(payload map[string]any) error {
	runID, ok := payload["run_id"].(string)
	if !ok || runID == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "payload has no run_id")
	}
	if _, ok := payload[integrity.Field]; !ok {
		return errors.New(errors.ErrCodeMissingIntegrity,
			"refusing to store payload without integrity envelope")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	compressed := s.encoder.EncodeAll(raw, nil)

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+runID), compressed)
	})
}

// Get loads a stored payload by run ID. Returns a NOT_FOUND error for
// unknown IDs.
func (s *Store) Get(runID string) (map[string]any, error) {
	var compressed []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + runID))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.NewWithContext(errors.ErrCodeNotFound,
			"run not found in history", map[string]any{"run_id": runID})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read run %q: %w", runID, err)
	}

	raw, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress run %q: %w", runID, err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode run %q: %w", runID, err)
	}
	return payload, nil
}

// Verify loads a stored run and re-checks its integrity envelope.
func (s *Store) Verify(runID string) (*integrity.Report, error) {
	payload, err := s.Get(runID)
	if err != nil {
		return nil, err
	}
	return s.hasher.Report(payload)
}

// List returns all stored runs with their timestamps, in key order.
func (s *Store) List() ([]Entry, error) {
	entries := make([]Entry, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			runID := string(item.Key()[len(keyPrefix):])

			entry := Entry{RunID: runID}
			err := item.Value(func(compressed []byte) error {
				raw, err := s.decoder.DecodeAll(compressed, nil)
				if err != nil {
					return err
				}
				var partial struct {
					Timestamp string `json:"timestamp_utc"`
				}
				if err := json.Unmarshal(raw, &partial); err != nil {
					return err
				}
				entry.Timestamp = partial.Timestamp
				return nil
			})
			if err != nil {
				return fmt.Errorf("failed to read run %q: %w", runID, err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes a stored run. Deleting an unknown ID is a no-op.
func (s *Store) Delete(runID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + runID))
	})
}

// Close releases the database and compressor resources.
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}
