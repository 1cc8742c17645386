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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pulse-bench/pulse/pkg/backend"
	"github.com/pulse-bench/pulse/pkg/errors"
	"github.com/pulse-bench/pulse/pkg/telemetry"
	"github.com/pulse-bench/pulse/pkg/workload"
)

// Orchestrator executes profiling experiments for a workload on a given
// backend: warmup stabilization, multi-run measurement, telemetry
// capture, and guaranteed backend teardown.
type Orchestrator struct {
	backend  backend.Backend
	workload workload.Workload
	runs     int
	warmup   int

	sampling bool
	interval time.Duration
	source   telemetry.Source

	// now is the clock used for timing boundaries, replaceable in tests
	// to exercise clock-regression handling.
	now func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRuns sets the measured iteration count.
func WithRuns(n int) Option {
	return func(o *Orchestrator) { o.runs = n }
}

// WithWarmup sets the discarded stabilization iteration count.
func WithWarmup(n int) Option {
	return func(o *Orchestrator) { o.warmup = n }
}

// WithSampling toggles background time-series collection.
func WithSampling(enabled bool) Option {
	return func(o *Orchestrator) { o.sampling = enabled }
}

// WithSampleInterval sets the telemetry sampling period.
func WithSampleInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithTelemetrySource overrides the telemetry source.
func WithTelemetrySource(src telemetry.Source) Option {
	return func(o *Orchestrator) {
		if src != nil {
			o.source = src
		}
	}
}

// WithClock overrides the timing clock. Test hook.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an Orchestrator for the given backend and workload.
// Defaults: 5 measured runs, 1 warmup, sampling enabled at 100ms.
func New(b backend.Backend, w workload.Workload, opts ...Option) (*Orchestrator, error) {
	if b == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "backend is required")
	}
	if w == nil {
		return nil, errors.New(errors.ErrCodeInvalidWorkload, "workload is required")
	}

	o := &Orchestrator{
		backend:  b,
		workload: w,
		runs:     5,
		warmup:   1,
		sampling: true,
		interval: telemetry.DefaultSampleInterval,
		source:   telemetry.NewSystemSource(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.runs < 1 {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"runs must be >= 1", map[string]any{"runs": o.runs})
	}
	if o.warmup < 0 {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"warmup cannot be negative", map[string]any{"warmup": o.warmup})
	}

	return o, nil
}

// Experiment returns the descriptor for this orchestrator's
// configuration.
func (o *Orchestrator) Experiment() Experiment {
	return Experiment{
		Backend:  o.backend.Name(),
		Workload: o.workload.Name(),
		Runs:     o.runs,
		Warmup:   o.warmup,
	}
}

// Execute runs the full experiment lifecycle: backend setup, warmup
// iterations (discarded), measured iterations, backend teardown.
//
// Teardown is attempted on every exit path; a teardown failure is
// logged and never masks the primary error. Exactly runs results are
// returned on success, each carrying its telemetry snapshots and, when
// sampling is enabled, the full time series. Any iteration failure
// aborts the experiment: a systemic clock or workload defect
// invalidates the whole run set, so there are no retries and no
// silently dropped samples.
//
// The context is honored between iterations only; a single backend run
// call cannot be canceled, a hanging workload hangs the orchestrator.
func (o *Orchestrator) Execute(ctx context.Context) ([]RunResult, error) {
	slog.Info("starting experiment",
		"backend", o.backend.Name(),
		"workload", o.workload.Name(),
		"runs", o.runs,
		"warmup", o.warmup,
	)

	start := time.Now()
	defer func() {
		experimentDuration.Observe(time.Since(start).Seconds())
	}()

	defer func() {
		if err := o.backend.Teardown(); err != nil {
			slog.Warn("backend teardown failed",
				"backend", o.backend.Name(),
				"error", err.Error(),
			)
		}
	}()

	if err := o.backend.Setup(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSetupFailed,
			fmt.Sprintf("failed to set up backend %q", o.backend.Name()), err)
	}

	results := make([]RunResult, 0, o.runs)
	total := o.runs + o.warmup

	for i := range total {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("experiment canceled before iteration %d: %w", i+1, err)
		}

		res, err := o.executeOnce()
		if err != nil {
			iterationsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("iteration %d failed: %w", i+1, err)
		}
		iterationsTotal.WithLabelValues("success").Inc()
		iterationDuration.Observe(res.Duration.Seconds())

		// The first warmup iterations stabilize caches, clocks, and
		// device state; they never reach the caller or the analyzer.
		if i < o.warmup {
			slog.Debug("warmup iteration complete", "iteration", i+1)
			continue
		}

		slog.Debug("measured iteration complete",
			"run", i-o.warmup+1,
			"duration", res.Duration.String(),
			"tokens", res.Tokens,
		)
		results = append(results, res)
	}

	slog.Info("experiment complete",
		"backend", o.backend.Name(),
		"results", len(results),
	)
	return results, nil
}

// executeOnce performs a single iteration: start sampler, capture the
// before snapshot, time the backend run, capture the after snapshot,
// stop the sampler. The sampler's lifetime fully brackets the measured
// interval.
func (o *Orchestrator) executeOnce() (RunResult, error) {
	var sampler *telemetry.Sampler
	if o.sampling && o.backend.SupportsSampling() {
		sampler = telemetry.NewSampler(o.source, telemetry.WithInterval(o.interval))
		sampler.Start()
		defer sampler.Stop()
	}

	before := telemetry.CaptureSnapshot(o.source)

	start := o.now()
	tokens, runErr := o.backend.Run(o.workload)
	end := o.now()

	after := telemetry.CaptureSnapshot(o.source)

	if sampler != nil {
		sampler.Stop()
	}

	if runErr != nil {
		return RunResult{}, runErr
	}

	duration := end.Sub(start)
	if duration <= 0 {
		return RunResult{}, errors.NewWithContext(errors.ErrCodeInvalidDuration,
			"invalid execution duration detected",
			map[string]any{"duration_ns": duration.Nanoseconds()})
	}

	res := RunResult{
		Duration:   duration,
		Tokens:     tokens,
		CPUBefore:  before,
		CPUAfter:   after,
		TimeSeries: []telemetry.Sample{},
	}
	if sampler != nil {
		res.TimeSeries = sampler.Samples()
		timeSeriesSamples.Set(float64(len(res.TimeSeries)))
	}

	return res, nil
}
