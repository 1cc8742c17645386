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

package stats

import (
	"math"
	"slices"

	"github.com/pulse-bench/pulse/pkg/errors"
)

// Aggregate holds benchmark-ready statistics derived from a value
// sequence. Instances are immutable value objects, recomputed per
// analysis call and never mutated in place.
type Aggregate struct {
	Mean                   float64 `json:"mean" yaml:"mean"`
	Median                 float64 `json:"median" yaml:"median"`
	StdDev                 float64 `json:"stddev" yaml:"stddev"`
	Min                    float64 `json:"min" yaml:"min"`
	Max                    float64 `json:"max" yaml:"max"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation" yaml:"coefficient_of_variation"`
	Confidence95           float64 `json:"confidence_95" yaml:"confidence_95"`
	Samples                int     `json:"samples" yaml:"samples"`
}

// Compute aggregates numeric values into benchmark statistics.
// Returns an EMPTY_INPUT error for an empty sequence. The standard
// deviation is the sample standard deviation and requires at least two
// values, otherwise it is 0. The 95% confidence interval width uses the
// normal approximation 1.96*(stddev/sqrt(n)).
func Compute(values []float64) (Aggregate, error) {
	if len(values) == 0 {
		return Aggregate{}, errors.New(errors.ErrCodeEmptyInput, "cannot aggregate empty value list")
	}

	mean := Mean(values)
	std := StdDev(values)

	cov := 0.0
	if mean != 0 {
		cov = std / mean
	}

	return Aggregate{
		Mean:                   mean,
		Median:                 Median(values),
		StdDev:                 std,
		Min:                    slices.Min(values),
		Max:                    slices.Max(values),
		CoefficientOfVariation: cov,
		Confidence95:           confidenceInterval95(std, len(values)),
		Samples:                len(values),
	}, nil
}

// Mean returns the arithmetic mean, or 0 for an empty sequence.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value of the sorted sequence, averaging the
// two central values for even-length input. Returns 0 for an empty
// sequence. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// StdDev returns the sample standard deviation, or 0 when fewer than two
// values are present.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// confidenceInterval95 computes the 95% confidence interval width using
// the normal approximation. Zero when fewer than two samples exist.
func confidenceInterval95(stddev float64, n int) float64 {
	if n < 2 {
		return 0
	}
	return 1.96 * (stddev / math.Sqrt(float64(n)))
}

// Normalize scales values into [0,1]. When all values are equal, every
// output is exactly 1.0: a no-variance sequence is treated as fully
// scored rather than mid-scored, so that a uniform metric never drags a
// backend's comparison score down.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	minV := slices.Min(values)
	maxV := slices.Max(values)

	out := make([]float64, len(values))
	if maxV == minV {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}

	for i, v := range values {
		out[i] = (v - minV) / (maxV - minV)
	}
	return out
}

// RelativeImprovement returns the percentage improvement of candidate
// over baseline. Positive means improvement, negative regression.
// Returns 0 when baseline is 0 to avoid a divide-by-zero; this is a
// sentinel, not a true "no change".
func RelativeImprovement(baseline, candidate float64) float64 {
	if baseline == 0 {
		return 0
	}
	return ((candidate - baseline) / baseline) * 100.0
}

// StabilityFromStd converts run variance into a stability score in
// [0,1], computed as 1 minus the coefficient of variation and clamped.
// Higher is better. A zero mean yields 0.
func StabilityFromStd(mean, stddev float64) float64 {
	if mean == 0 {
		return 0
	}
	return math.Max(0, math.Min(1, 1.0-stddev/mean))
}
