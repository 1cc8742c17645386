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

package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultSampleInterval is the default telemetry sampling period.
const DefaultSampleInterval = 100 * time.Millisecond

// defaultMaxSamples caps the time-series buffer so a runaway workload
// cannot grow it without bound.
const defaultMaxSamples = 100000

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithInterval sets the sampling period.
func WithInterval(d time.Duration) SamplerOption {
	return func(s *Sampler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithMaxSamples caps the number of buffered samples.
func WithMaxSamples(n int) SamplerOption {
	return func(s *Sampler) {
		if n > 0 {
			s.maxSamples = n
		}
	}
}

// Sampler collects utilization samples on a background goroutine at a
// fixed interval while a workload runs on the foreground.
//
// Start and Stop are idempotent. Stop cancels the sampling loop and
// blocks until the goroutine has exited, guaranteeing that no sample is
// appended after Stop returns. Readers always receive a copy of the
// buffer, never the live slice.
type Sampler struct {
	source     Source
	interval   time.Duration
	maxSamples int

	// lifecycle state, guarded separately from the buffer so Stop can
	// join the loop without holding the append lock
	lifecycleMu sync.Mutex
	running     bool
	cancel      context.CancelFunc
	done        chan struct{}

	mu      sync.Mutex
	samples []Sample
}

// NewSampler creates a sampler reading from the given source.
func NewSampler(source Source, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		source:     source,
		interval:   DefaultSampleInterval,
		maxSamples: defaultMaxSamples,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background sampling loop. Calling Start while the
// sampler is already running is a no-op.
func (s *Sampler) Start() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx)

	slog.Debug("telemetry sampler started", "interval", s.interval.String())
}

// Stop terminates the sampling loop and waits for it to exit. Calling
// Stop while the sampler is not running is a no-op.
func (s *Sampler) Stop() {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.running = false

	slog.Debug("telemetry sampler stopped", "samples", s.Len())
}

// loop captures one sample per interval until the context is canceled.
// The rate limiter admits the first capture immediately and paces the
// rest; a canceled context unblocks Wait within the interval.
func (s *Sampler) loop(ctx context.Context) {
	defer close(s.done)

	limiter := rate.NewLimiter(rate.Every(s.interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		sample := Sample{
			Timestamp:      time.Now().UTC(),
			CPUUtilPercent: s.source.CPUUtilization(),
			GPUUtilPercent: s.source.GPUUtilization(),
		}

		s.mu.Lock()
		if len(s.samples) < s.maxSamples {
			s.samples = append(s.samples, sample)
		}
		s.mu.Unlock()
	}
}

// Samples returns a consistent snapshot copy of the collected samples.
func (s *Sampler) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Len returns the current number of buffered samples.
func (s *Sampler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Clear resets the sample buffer.
func (s *Sampler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = s.samples[:0]
}
