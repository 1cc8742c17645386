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

package analyzer

import (
	"math"

	"github.com/pulse-bench/pulse/pkg/errors"
	"github.com/pulse-bench/pulse/pkg/orchestrator"
	"github.com/pulse-bench/pulse/pkg/stats"
)

const (
	// DefaultOutlierThreshold is the stddev multiple beyond which a
	// sample is discarded.
	DefaultOutlierThreshold = 2.5

	// DefaultEnergyNormalization scales the energy proxy to a per-1K
	// token figure.
	DefaultEnergyNormalization = 1000.0
)

// Result holds the statistically aggregated view of an experiment's
// measured runs plus the derived efficiency metrics.
type Result struct {
	Latency stats.Aggregate `json:"latency_sec" yaml:"latency_sec"`
	Tokens  stats.Aggregate `json:"tokens" yaml:"tokens"`
	CPU     stats.Aggregate `json:"cpu_percent" yaml:"cpu_percent"`

	// Throughput is tokens processed per second.
	Throughput float64 `json:"throughput_tokens_per_sec" yaml:"throughput_tokens_per_sec"`

	// EfficiencyScore is a performance-per-utilization proxy.
	EfficiencyScore float64 `json:"efficiency_score" yaml:"efficiency_score"`

	// EnergyPer1KTokens approximates energy cost per thousand tokens.
	EnergyPer1KTokens float64 `json:"energy_per_1k_tokens_proxy" yaml:"energy_per_1k_tokens_proxy"`

	// StabilityScore is 1 minus the duration coefficient of variation,
	// clamped to [0,1].
	StabilityScore float64 `json:"stability_score" yaml:"stability_score"`

	// SampleSize is the original unfiltered run count, kept for audit.
	SampleSize int `json:"sample_size" yaml:"sample_size"`
}

// Analyzer transforms raw run results into normalized efficiency
// insights.
type Analyzer struct {
	filterOutliers   bool
	outlierThreshold float64
	energyNorm       float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithOutlierFiltering toggles outlier removal before aggregation.
func WithOutlierFiltering(enabled bool) Option {
	return func(a *Analyzer) { a.filterOutliers = enabled }
}

// WithOutlierThreshold sets the stddev multiple used for filtering.
func WithOutlierThreshold(t float64) Option {
	return func(a *Analyzer) {
		if t > 0 {
			a.outlierThreshold = t
		}
	}
}

// WithEnergyNormalization sets the energy proxy scaling factor.
func WithEnergyNormalization(f float64) Option {
	return func(a *Analyzer) {
		if f > 0 {
			a.energyNorm = f
		}
	}
}

// New creates an Analyzer. Outlier filtering is enabled by default with
// a 2.5 stddev threshold.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		filterOutliers:   true,
		outlierThreshold: DefaultOutlierThreshold,
		energyNorm:       DefaultEnergyNormalization,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze aggregates measured runs into latency, token, and CPU
// statistics and derives throughput, efficiency, energy, and stability
// metrics. Returns an EMPTY_INPUT error when no runs are given.
//
// Outlier filtering, when enabled, is applied independently to each of
// the three sequences before aggregation. The stability score is always
// computed from the filtered duration sequence so that one runaway
// iteration cannot mark an otherwise steady backend unstable.
func (a *Analyzer) Analyze(runs []orchestrator.RunResult) (*Result, error) {
	if len(runs) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no runs provided for analysis")
	}

	durations := make([]float64, len(runs))
	tokens := make([]float64, len(runs))
	cpuUtil := make([]float64, len(runs))
	for i, r := range runs {
		durations[i] = r.Duration.Seconds()
		tokens[i] = float64(r.Tokens)
		cpuUtil[i] = r.CPUAfter.CPUPercent
	}

	if a.filterOutliers {
		durations = a.filter(durations)
		tokens = a.filter(tokens)
		cpuUtil = a.filter(cpuUtil)
	}

	latencyStats, err := stats.Compute(durations)
	if err != nil {
		return nil, err
	}
	tokenStats, err := stats.Compute(tokens)
	if err != nil {
		return nil, err
	}
	cpuStats, err := stats.Compute(cpuUtil)
	if err != nil {
		return nil, err
	}

	return &Result{
		Latency:           latencyStats,
		Tokens:            tokenStats,
		CPU:               cpuStats,
		Throughput:        throughput(tokenStats.Mean, latencyStats.Mean),
		EfficiencyScore:   efficiency(tokenStats.Mean, latencyStats.Mean, cpuStats.Mean),
		EnergyPer1KTokens: a.energyProxy(tokenStats.Mean, latencyStats.Mean, cpuStats.Mean),
		StabilityScore:    stability(durations),
		SampleSize:        len(runs),
	}, nil
}

// filter drops values farther than threshold stddevs from the mean.
// Sequences too short or too uniform to classify pass through, and if
// every value would be dropped the original sequence is kept: an
// all-outlier verdict says the threshold is wrong, not the data.
func (a *Analyzer) filter(values []float64) []float64 {
	if len(values) < 3 {
		return values
	}

	mean := stats.Mean(values)
	std := stats.StdDev(values)
	if std == 0 {
		return values
	}

	filtered := make([]float64, 0, len(values))
	for _, v := range values {
		if math.Abs(v-mean) <= a.outlierThreshold*std {
			filtered = append(filtered, v)
		}
	}

	if len(filtered) == 0 {
		return values
	}
	return filtered
}

func throughput(tokensMean, latencyMean float64) float64 {
	if latencyMean == 0 {
		return 0
	}
	return tokensMean / latencyMean
}

func efficiency(tokensMean, latencyMean, utilMean float64) float64 {
	if latencyMean == 0 || utilMean == 0 {
		return 0
	}
	return tokensMean / (latencyMean * utilMean)
}

func (a *Analyzer) energyProxy(tokensMean, latencyMean, utilMean float64) float64 {
	if tokensMean == 0 {
		return 0
	}
	return (latencyMean * utilMean / tokensMean) * a.energyNorm
}

// stability scores runtime steadiness from the duration sequence.
// Fewer than two samples carry no variance signal and score a full 1.0.
func stability(durations []float64) float64 {
	if len(durations) < 2 {
		return 1.0
	}
	return stats.StabilityFromStd(stats.Mean(durations), stats.StdDev(durations))
}
