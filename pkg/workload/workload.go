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

// Package workload defines the unit of benchmarked work. A workload is
// invocable with no arguments and returns a non-negative count of
// completed work units (e.g. generated tokens). Workloads must be
// deterministic enough that repeated invocation under identical
// conditions yields comparable durations.
package workload

import (
	"hash/fnv"
)

// Workload is a benchmarkable unit of work.
type Workload interface {
	// Name identifies the workload in reports.
	Name() string

	// Run executes the workload once and returns the number of work
	// units completed.
	Run() (int, error)
}

// DefaultPrompts seed the synthetic text workload.
var DefaultPrompts = []string{
	"Artificial intelligence will",
	"Future processors enable",
	"Efficient computing requires",
}

// DefaultMaxNewTokens is the per-prompt token budget of the synthetic
// workload.
const DefaultMaxNewTokens = 50

// SyntheticText is a deterministic stand-in for model inference: it
// derives pseudo-tokens from the prompts with a hash chain, burning a
// fixed amount of CPU per token. Identical configuration always
// produces the identical token count.
type SyntheticText struct {
	// Prompts are the inputs "generated" from. Defaults to
	// DefaultPrompts when empty.
	Prompts []string

	// MaxNewTokens is the per-prompt generation budget. Defaults to
	// DefaultMaxNewTokens when 0.
	MaxNewTokens int

	// WorkPerToken controls how much hashing each token costs,
	// approximating heavier models. Defaults to 1000 when 0.
	WorkPerToken int
}

// Name implements Workload.
func (s *SyntheticText) Name() string { return "synthetic-text" }

// Run implements Workload. Returns the total number of generated tokens
// across all prompts.
func (s *SyntheticText) Run() (int, error) {
	prompts := s.Prompts
	if len(prompts) == 0 {
		prompts = DefaultPrompts
	}
	budget := s.MaxNewTokens
	if budget <= 0 {
		budget = DefaultMaxNewTokens
	}
	work := s.WorkPerToken
	if work <= 0 {
		work = 1000
	}

	tokens := 0
	for _, prompt := range prompts {
		state := fnv.New64a()
		_, _ = state.Write([]byte(prompt))
		seed := state.Sum64()

		for range budget {
			for range work {
				// xorshift step keeps the loop from being optimized away
				seed ^= seed << 13
				seed ^= seed >> 7
				seed ^= seed << 17
			}
			tokens++
		}
	}

	return tokens, nil
}
