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
	"github.com/pulse-bench/pulse/pkg/stats"
)

// headline metric keys compared between runs.
var diffMetrics = []string{
	"efficiency_score",
	"throughput_tokens_per_sec",
	"energy_per_1k_tokens_proxy",
	"stability_score",
}

// MetricDelta is one metric's change between two runs. ChangePercent is
// the relative change of candidate over baseline; positive means the
// candidate value is higher, which for the energy proxy is a
// regression, not an improvement.
type MetricDelta struct {
	Baseline      float64 `json:"baseline" yaml:"baseline"`
	Candidate     float64 `json:"candidate" yaml:"candidate"`
	ChangePercent float64 `json:"change_percent" yaml:"change_percent"`
}

// Diff compares the headline metrics of two stored runs.
type Diff struct {
	BaselineRunID  string                 `json:"baseline_run_id" yaml:"baseline_run_id"`
	CandidateRunID string                 `json:"candidate_run_id" yaml:"candidate_run_id"`
	Metrics        map[string]MetricDelta `json:"metrics" yaml:"metrics"`
}

// Diff loads two stored runs and computes the relative change of every
// headline metric present in both.
func (s *Store) Diff(baselineID, candidateID string) (*Diff, error) {
	baseline, err := s.Get(baselineID)
	if err != nil {
		return nil, err
	}
	candidate, err := s.Get(candidateID)
	if err != nil {
		return nil, err
	}

	baseMetrics := headlineMetrics(baseline)
	candMetrics := headlineMetrics(candidate)

	d := &Diff{
		BaselineRunID:  baselineID,
		CandidateRunID: candidateID,
		Metrics:        make(map[string]MetricDelta),
	}

	for _, key := range diffMetrics {
		b, bok := baseMetrics[key]
		c, cok := candMetrics[key]
		if !bok || !cok {
			continue
		}
		d.Metrics[key] = MetricDelta{
			Baseline:      b,
			Candidate:     c,
			ChangePercent: stats.RelativeImprovement(b, c),
		}
	}

	return d, nil
}

// headlineMetrics digs the analysis metrics out of a stored payload.
// Single-run payloads nest them under result.analysis; older payloads
// may carry them directly under result.
func headlineMetrics(payload map[string]any) map[string]float64 {
	result, _ := payload["result"].(map[string]any)
	if result == nil {
		return nil
	}

	source := result
	if analysis, ok := result["analysis"].(map[string]any); ok {
		source = analysis
	}

	metrics := make(map[string]float64)
	for _, key := range diffMetrics {
		if v, ok := source[key].(float64); ok {
			metrics[key] = v
		}
	}
	return metrics
}
