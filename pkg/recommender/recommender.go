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

package recommender

import (
	"fmt"
	"math"
	"sort"

	"github.com/pulse-bench/pulse/pkg/analyzer"
	"github.com/pulse-bench/pulse/pkg/backend"
	"github.com/pulse-bench/pulse/pkg/errors"
)

// Operational modes a recommendation can suggest.
const (
	ModeSustainability = "sustainability"
	ModePerformance    = "performance"
	ModeExperimental   = "experimental"
)

// Scoring weights and thresholds. Fixed constants so repeated runs over
// the same analysis always produce the same recommendation.
const (
	EfficiencyWeight  = 0.5
	PerformanceWeight = 0.3
	StabilityWeight   = 0.2

	// MinStability is the floor below which a backend is considered
	// unstable.
	MinStability = 0.6

	// sustainabilityEnergyCeiling marks an energy proxy low enough to
	// prefer sustainability mode.
	sustainabilityEnergyCeiling = 100.0
)

// Recommendation is an explainable, non-authoritative suggestion. It
// never controls execution; callers decide what to do with it.
type Recommendation struct {
	Backend    string  `json:"recommended_backend" yaml:"recommended_backend"`
	Mode       string  `json:"mode" yaml:"mode"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Rationale  string  `json:"rationale" yaml:"rationale"`

	// Scores carries the per-backend weighted scores in multi-backend
	// mode, for transparency. Nil for single-backend recommendations.
	Scores map[string]float64 `json:"scores,omitempty" yaml:"scores,omitempty"`
}

// Recommend suggests an operational mode for a single analyzed backend.
// An efficient and stable run favors the cooler CPU class; anything
// else falls back to raw GPU throughput.
func Recommend(analysis *analyzer.Result) (*Recommendation, error) {
	if analysis == nil {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no analysis provided")
	}

	var mode, suggested string
	if analysis.EfficiencyScore > 0 && analysis.StabilityScore >= MinStability {
		mode = ModeSustainability
		suggested = backend.NameCPU
	} else {
		mode = ModePerformance
		suggested = backend.NameGPU
	}

	return &Recommendation{
		Backend:    suggested,
		Mode:       mode,
		Confidence: roundConfidence(analysis.StabilityScore),
		Rationale:  rationale(analysis, mode),
	}, nil
}

// RecommendFromComparison selects the best backend among multiple
// analyzed candidates using a weighted score of efficiency, throughput,
// and stability. Ties break toward the lexicographically smaller
// backend name so the result is deterministic regardless of map
// iteration order.
func RecommendFromComparison(results map[string]*analyzer.Result) (*Recommendation, error) {
	if len(results) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no backend results provided")
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	scores := make(map[string]float64, len(results))
	best := names[0]
	for _, name := range names {
		s := Score(results[name])
		scores[name] = s
		if s > scores[best] {
			best = name
		}
	}

	winner := results[best]
	mode := deriveMode(winner)

	return &Recommendation{
		Backend:    best,
		Mode:       mode,
		Confidence: roundConfidence(winner.StabilityScore),
		Rationale:  rationale(winner, mode),
		Scores:     scores,
	}, nil
}

// Score computes the weighted backend score. Higher is better.
func Score(analysis *analyzer.Result) float64 {
	if analysis == nil {
		return 0
	}
	return analysis.EfficiencyScore*EfficiencyWeight +
		analysis.Throughput*PerformanceWeight +
		analysis.StabilityScore*StabilityWeight
}

// deriveMode determines the operational preference for a winning
// backend independently of how it won.
func deriveMode(analysis *analyzer.Result) string {
	if analysis.StabilityScore < MinStability {
		return ModeExperimental
	}
	if analysis.EnergyPer1KTokens < sustainabilityEnergyCeiling {
		return ModeSustainability
	}
	return ModePerformance
}

// rationale generates the human-readable justification for a mode.
func rationale(analysis *analyzer.Result, mode string) string {
	switch {
	case mode == ModeSustainability:
		return fmt.Sprintf(
			"Selected for superior efficiency (score=%.4f) and lower energy usage (%.2f/1K tokens).",
			analysis.EfficiencyScore, analysis.EnergyPer1KTokens)
	case mode == ModePerformance:
		return "Selected for higher throughput despite increased energy utilization."
	case analysis.StabilityScore < MinStability:
		return "Backend shows unstable execution; recommend cautious deployment."
	default:
		return "Balanced efficiency and performance characteristics."
	}
}

func roundConfidence(v float64) float64 {
	return math.Round(v*1000) / 1000
}
