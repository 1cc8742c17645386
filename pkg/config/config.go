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

// Package config centralizes runtime configuration for the pulse
// benchmarking tool: experiment defaults, sampling intervals, analyzer
// tuning, and report locations. Values load from defaults, then PULSE_*
// environment variables; the CLI may layer flag overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names recognized by FromEnv.
const (
	EnvRuns             = "PULSE_RUNS"
	EnvWarmup           = "PULSE_WARMUP"
	EnvMaxRuns          = "PULSE_MAX_RUNS"
	EnvSampleInterval   = "PULSE_SAMPLE_INTERVAL"
	EnvEnableSampling   = "PULSE_ENABLE_SAMPLING"
	EnvOutlierThreshold = "PULSE_OUTLIER_STD"
	EnvFilterOutliers   = "PULSE_FILTER_OUTLIERS"
	EnvEnergyNorm       = "PULSE_ENERGY_NORMALIZATION"
	EnvHashAlgorithm    = "PULSE_HASH_ALGO"
	EnvReportDir        = "PULSE_REPORT_DIR"
	EnvHistoryDir       = "PULSE_HISTORY_DIR"
)

// Defaults for experiment execution and analysis.
const (
	DefaultRuns           = 5
	DefaultWarmupRuns     = 1
	DefaultMaxRuns        = 50
	DefaultSampleInterval = 100 * time.Millisecond
	MinSampleInterval     = 10 * time.Millisecond

	DefaultOutlierThreshold = 2.5
	DefaultEnergyNorm       = 1000.0

	DefaultHashAlgorithm = "sha256"
	DefaultReportDir     = "reports"
	DefaultHistoryDir    = ".pulse/history"
)

// Config holds validated runtime configuration.
type Config struct {
	// Runs is the number of measured iterations per experiment.
	Runs int

	// Warmup is the number of discarded stabilization iterations.
	Warmup int

	// MaxRuns caps the measured iteration count.
	MaxRuns int

	// SampleInterval is the telemetry sampling period.
	SampleInterval time.Duration

	// EnableSampling toggles background time-series collection.
	EnableSampling bool

	// OutlierThreshold is the stddev multiple beyond which a value is
	// classified as an outlier.
	OutlierThreshold float64

	// FilterOutliers toggles outlier filtering in the analyzer.
	FilterOutliers bool

	// EnergyNormalization scales the energy proxy per N work units.
	EnergyNormalization float64

	// HashAlgorithm selects the integrity fingerprint algorithm.
	HashAlgorithm string

	// ReportDir is where report artifacts are written.
	ReportDir string

	// HistoryDir is where the local report history store lives.
	HistoryDir string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Runs:                DefaultRuns,
		Warmup:              DefaultWarmupRuns,
		MaxRuns:             DefaultMaxRuns,
		SampleInterval:      DefaultSampleInterval,
		EnableSampling:      true,
		OutlierThreshold:    DefaultOutlierThreshold,
		FilterOutliers:      true,
		EnergyNormalization: DefaultEnergyNorm,
		HashAlgorithm:       DefaultHashAlgorithm,
		ReportDir:           DefaultReportDir,
		HistoryDir:          DefaultHistoryDir,
	}
}

// FromEnv returns the default configuration with PULSE_* environment
// overrides applied. Invalid values are ignored in favor of defaults;
// validation happens separately so the caller decides when to fail.
func FromEnv() *Config {
	c := Default()

	if v, ok := intEnv(EnvRuns); ok {
		c.Runs = v
	}
	if v, ok := intEnv(EnvWarmup); ok {
		c.Warmup = v
	}
	if v, ok := intEnv(EnvMaxRuns); ok {
		c.MaxRuns = v
	}
	if v, ok := durationEnv(EnvSampleInterval); ok {
		c.SampleInterval = v
	}
	if v, ok := boolEnv(EnvEnableSampling); ok {
		c.EnableSampling = v
	}
	if v, ok := floatEnv(EnvOutlierThreshold); ok {
		c.OutlierThreshold = v
	}
	if v, ok := boolEnv(EnvFilterOutliers); ok {
		c.FilterOutliers = v
	}
	if v, ok := floatEnv(EnvEnergyNorm); ok {
		c.EnergyNormalization = v
	}
	if v := os.Getenv(EnvHashAlgorithm); v != "" {
		c.HashAlgorithm = v
	}
	if v := os.Getenv(EnvReportDir); v != "" {
		c.ReportDir = v
	}
	if v := os.Getenv(EnvHistoryDir); v != "" {
		c.HistoryDir = v
	}

	return c
}

// Validate checks configuration sanity. Called once at startup.
func (c *Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("runs must be >= 1, got %d", c.Runs)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("warmup runs cannot be negative, got %d", c.Warmup)
	}
	if c.MaxRuns > 0 && c.Runs > c.MaxRuns {
		return fmt.Errorf("runs %d exceed limit %d", c.Runs, c.MaxRuns)
	}
	if c.SampleInterval < MinSampleInterval {
		return fmt.Errorf("sample interval %s below minimum %s", c.SampleInterval, MinSampleInterval)
	}
	if c.OutlierThreshold <= 0 {
		return fmt.Errorf("outlier threshold must be positive, got %f", c.OutlierThreshold)
	}
	if c.EnergyNormalization <= 0 {
		return fmt.Errorf("energy normalization must be positive, got %f", c.EnergyNormalization)
	}
	return nil
}

func intEnv(key string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return 0, false
	}
	return v, true
}

func floatEnv(key string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func boolEnv(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, false
	}
	return v, true
}

func durationEnv(key string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	// Accept plain seconds for parity with older configurations.
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), true
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
}
