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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pulse-bench/pulse/pkg/analyzer"
	"github.com/pulse-bench/pulse/pkg/backend"
	"github.com/pulse-bench/pulse/pkg/errors"
	"github.com/pulse-bench/pulse/pkg/orchestrator"
	"github.com/pulse-bench/pulse/pkg/recommender"
	"github.com/pulse-bench/pulse/pkg/workload"
)

// TypeHeterogeneous identifies a comparison across different hardware
// backend classes.
const TypeHeterogeneous = "heterogeneous_backend"

// BackendResult pairs one backend's raw measured runs with its
// analysis.
type BackendResult struct {
	Backend  string                   `json:"backend" yaml:"backend"`
	RawRuns  []orchestrator.RunResult `json:"raw_runs" yaml:"raw_runs"`
	Analysis *analyzer.Result         `json:"analysis" yaml:"analysis"`
}

// RankEntry summarizes the dimensions a backend is ranked on. It is a
// display aid, independent of the recommender's internal scoring.
type RankEntry struct {
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`
	Throughput float64 `json:"throughput" yaml:"throughput"`
	Stability  float64 `json:"stability" yaml:"stability"`
	Energy     float64 `json:"energy" yaml:"energy"`
}

// Result is the full outcome of a multi-backend comparison.
type Result struct {
	ComparisonType string                        `json:"comparison_type" yaml:"comparison_type"`
	TestedBackends []string                      `json:"tested_backends" yaml:"tested_backends"`
	BackendResults map[string]*BackendResult     `json:"backend_results" yaml:"backend_results"`
	Ranking        map[string]RankEntry          `json:"ranking" yaml:"ranking"`
	Recommendation *recommender.Recommendation   `json:"final_recommendation" yaml:"final_recommendation"`
}

// Engine runs identical experiments across multiple backends and
// produces normalized, ranked comparison results.
type Engine struct {
	registry *backend.Registry
	analyzer *analyzer.Analyzer
	runs     int
	warmup   int
	orchOpts []orchestrator.Option
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry overrides the backend registry.
func WithRegistry(r *backend.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithAnalyzer overrides the analyzer.
func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(e *Engine) {
		if a != nil {
			e.analyzer = a
		}
	}
}

// WithRuns sets the measured iteration count per backend.
func WithRuns(n int) Option {
	return func(e *Engine) { e.runs = n }
}

// WithWarmup sets the warmup iteration count per backend.
func WithWarmup(n int) Option {
	return func(e *Engine) { e.warmup = n }
}

// WithOrchestratorOptions forwards extra options to each per-backend
// orchestrator, such as sampling configuration.
func WithOrchestratorOptions(opts ...orchestrator.Option) Option {
	return func(e *Engine) { e.orchOpts = append(e.orchOpts, opts...) }
}

// New creates a comparison Engine with the default registry and
// analyzer, 5 measured runs, and 1 warmup per backend.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: backend.NewDefaultRegistry(),
		analyzer: analyzer.New(),
		runs:     5,
		warmup:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare executes the workload on every named backend in input order,
// analyzes each run set, ranks the backends, and produces a final
// recommendation.
//
// At least two backend names are required; duplicates are a caller
// error and overwrite each other (last write wins). A failure on any
// backend aborts the whole comparison, since a partial comparison
// cannot be ranked fairly.
func (e *Engine) Compare(ctx context.Context, w workload.Workload, names []string) (*Result, error) {
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no backends provided for comparison")
	}
	if len(names) < 2 {
		return nil, errors.NewWithContext(errors.ErrCodeInsufficientBackends,
			"comparison requires at least two backends",
			map[string]any{"backends": names})
	}

	start := time.Now()
	results := make(map[string]*BackendResult, len(names))
	analyses := make(map[string]*analyzer.Result, len(names))

	for _, name := range names {
		br, err := e.runBackend(ctx, w, name)
		if err != nil {
			comparisonsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("backend %q comparison failed: %w", name, err)
		}
		results[name] = br
		analyses[name] = br.Analysis
	}

	rec, err := recommender.RecommendFromComparison(analyses)
	if err != nil {
		comparisonsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	comparisonsTotal.WithLabelValues("success").Inc()
	comparisonDuration.Observe(time.Since(start).Seconds())

	return &Result{
		ComparisonType: TypeHeterogeneous,
		TestedBackends: names,
		BackendResults: results,
		Ranking:        rank(results),
		Recommendation: rec,
	}, nil
}

// runBackend executes the full experiment and analysis pipeline for a
// single backend.
func (e *Engine) runBackend(ctx context.Context, w workload.Workload, name string) (*BackendResult, error) {
	slog.Info("executing comparison backend", "backend", name)

	b, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}

	opts := append([]orchestrator.Option{
		orchestrator.WithRuns(e.runs),
		orchestrator.WithWarmup(e.warmup),
	}, e.orchOpts...)

	orch, err := orchestrator.New(b, w, opts...)
	if err != nil {
		return nil, err
	}

	runs, err := orch.Execute(ctx)
	if err != nil {
		return nil, err
	}

	analysis, err := e.analyzer.Analyze(runs)
	if err != nil {
		return nil, err
	}

	return &BackendResult{
		Backend:  name,
		RawRuns:  runs,
		Analysis: analysis,
	}, nil
}

// rank builds the per-backend ranking table.
func rank(results map[string]*BackendResult) map[string]RankEntry {
	ranking := make(map[string]RankEntry, len(results))
	for name, br := range results {
		ranking[name] = RankEntry{
			Efficiency: br.Analysis.EfficiencyScore,
			Throughput: br.Analysis.Throughput,
			Stability:  br.Analysis.StabilityScore,
			Energy:     br.Analysis.EnergyPer1KTokens,
		}
	}
	return ranking
}
