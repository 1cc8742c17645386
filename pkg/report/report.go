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

package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pulse-bench/pulse/pkg/environment"
	"github.com/pulse-bench/pulse/pkg/integrity"
	"github.com/pulse-bench/pulse/pkg/orchestrator"
)

// DefaultDir is where report artifacts land unless configured
// otherwise.
const DefaultDir = "reports"

const runIDPrefix = "pulse"

// Sink assembles verifiable experiment reports and persists them as
// JSON artifacts with flattened CSV summaries.
type Sink struct {
	dir    string
	hasher *integrity.Hasher
	now    func() time.Time
	newID  func() string
}

// Option configures a Sink.
type Option func(*Sink)

// WithDir sets the artifact output directory.
func WithDir(dir string) Option {
	return func(s *Sink) {
		if dir != "" {
			s.dir = dir
		}
	}
}

// WithHasher overrides the integrity hasher.
func WithHasher(h *integrity.Hasher) Option {
	return func(s *Sink) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithClock overrides the timestamp clock. Test hook.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a report Sink writing to the default directory with
// SHA-256 integrity fingerprints.
func New(opts ...Option) (*Sink, error) {
	hasher, err := integrity.New()
	if err != nil {
		return nil, err
	}

	s := &Sink{
		dir:    DefaultDir,
		hasher: hasher,
		now:    time.Now,
		newID:  func() string { return fmt.Sprintf("%s-%s", runIDPrefix, uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BuildPayload assembles the canonical report payload with a fresh run
// identifier and UTC timestamp, then attaches the integrity envelope.
// The result may be a single-backend analysis, a comparison result, or
// any other serializable outcome.
func (s *Sink) BuildPayload(result any, env *environment.Snapshot, experiment *orchestrator.Experiment) (map[string]any, error) {
	payload := map[string]any{
		"run_id":        s.newID(),
		"timestamp_utc": s.now().UTC().Format(time.RFC3339Nano),
		"experiment":    experiment,
		"environment":   env,
		"result":        result,
	}
	if experiment == nil {
		payload["experiment"] = map[string]any{}
	}

	return s.hasher.Attach(payload)
}

// Write persists the payload as an indented JSON artifact plus a
// flattened CSV summary, both named by run ID. Returns the JSON path.
func (s *Sink) Write(payload map[string]any) (string, error) {
	runID, ok := payload["run_id"].(string)
	if !ok || runID == "" {
		return "", fmt.Errorf("payload has no run_id")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %q: %w", s.dir, err)
	}

	jsonPath := filepath.Join(s.dir, runID+".json")
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(jsonPath, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %q: %w", jsonPath, err)
	}

	if err := s.writeCSVSummary(payload, runID); err != nil {
		return "", err
	}

	return jsonPath, nil
}

// csvColumns is the fixed summary schema, stable across runs so files
// can be concatenated.
var csvColumns = []string{
	"run_id",
	"efficiency_score",
	"throughput_tokens_per_sec",
	"energy_per_1k_tokens",
	"stability_score",
	"recommended_backend",
	"mode",
}

// writeCSVSummary exports the headline metrics as a one-row CSV for
// quick inspection and spreadsheet import.
func (s *Sink) writeCSVSummary(payload map[string]any, runID string) error {
	result := asMap(payload["result"])

	// comparison payloads carry headline metrics under the final
	// recommendation instead of at the top level
	rec := asMap(result["final_recommendation"])

	row := []string{
		runID,
		formatField(result["efficiency_score"]),
		formatField(result["throughput_tokens_per_sec"]),
		formatField(result["energy_per_1k_tokens_proxy"]),
		formatField(result["stability_score"]),
		formatField(firstOf(result["recommended_backend"], rec["recommended_backend"])),
		formatField(firstOf(result["mode"], rec["mode"])),
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	csvPath := filepath.Join(s.dir, runID+".csv")
	if err := os.WriteFile(csvPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write csv summary %q: %w", csvPath, err)
	}
	return nil
}

// asMap coerces a value into a generic map, round-tripping structs
// through JSON. Returns an empty map for anything that is not
// map-shaped.
func asMap(v any) map[string]any {
	if v == nil {
		return map[string]any{}
	}
	if m, ok := v.(map[string]any); ok {
		return m
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

func firstOf(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func formatField(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
