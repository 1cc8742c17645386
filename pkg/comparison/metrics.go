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

package comparison

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	comparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulse_comparisons_total",
			Help: "Total number of multi-backend comparisons",
		},
		[]string{"status"}, // success or error
	)

	comparisonDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulse_comparison_duration_seconds",
			Help:    "Time taken to run a full multi-backend comparison",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 600},
		},
	)
)
