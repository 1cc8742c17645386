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

package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Experiment execution metrics
	experimentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_experiment_duration_seconds",
			Help:    "Time taken to execute a complete experiment including warmup",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	iterationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_experiment_iterations_total",
			Help: "Total number of experiment iterations",
		},
		[]string{"status"}, // success or error
	)

	iterationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_iteration_duration_seconds",
			Help:    "Duration of individual workload iterations",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	timeSeriesSamples = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulse_iteration_timeseries_samples",
			Help: "Number of telemetry samples captured in the last iteration",
		},
	)
)
