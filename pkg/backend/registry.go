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

package backend

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/pulse-bench/pulse/pkg/errors"
)

// Factory is a function that creates a new Backend instance.
type Factory func() Backend

// Registry manages backend constructors with thread-safe operations.
// It is constructed explicitly at startup and passed by reference to
// whatever needs backend lookup; there is no hidden global state.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty Registry. Backends are registered
// explicitly using Register.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry creates a Registry with the built-in CPU and GPU
// backends registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NameCPU, func() Backend { return NewCPU() })
	r.MustRegister(NameGPU, func() Backend { return NewGPU() })
	return r
}

// Register registers a backend factory. Returns an error if a backend
// with the same name is already registered.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("backend %q already registered", name)
	}

	r.factories[name] = factory
	return nil
}

// MustRegister panics on registration error. Use during startup wiring
// where registration must succeed.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Get instantiates the named backend. Returns an UNKNOWN_BACKEND error
// when the name is not registered.
func (r *Registry) Get(name string) (Backend, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NewWithContext(errors.ErrCodeUnknownBackend,
			fmt.Sprintf("unknown backend %q", name),
			map[string]any{"available": r.Names()})
	}

	return factory(), nil
}

// Names returns all registered backend names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Available probes which registered backends initialize successfully on
// this host. Each probe is a full setup/teardown round trip.
func (r *Registry) Available() []string {
	available := make([]string, 0)

	for _, name := range r.Names() {
		b, err := r.Get(name)
		if err != nil {
			continue
		}
		if err := b.Setup(); err != nil {
			slog.Debug("backend unavailable", "backend", name, "error", err.Error())
			continue
		}
		if err := b.Teardown(); err != nil {
			slog.Debug("backend teardown failed during probe", "backend", name, "error", err.Error())
		}
		available = append(available, name)
	}

	return available
}
