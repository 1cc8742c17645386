package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Runs != DefaultRuns {
		t.Errorf("Runs = %d, want %d", c.Runs, DefaultRuns)
	}
	if c.Warmup != DefaultWarmupRuns {
		t.Errorf("Warmup = %d, want %d", c.Warmup, DefaultWarmupRuns)
	}
	if c.SampleInterval != DefaultSampleInterval {
		t.Errorf("SampleInterval = %s, want %s", c.SampleInterval, DefaultSampleInterval)
	}
	if !c.EnableSampling || !c.FilterOutliers {
		t.Error("sampling and outlier filtering should default on")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvRuns, "9")
	t.Setenv(EnvWarmup, "2")
	t.Setenv(EnvSampleInterval, "0.25")
	t.Setenv(EnvFilterOutliers, "false")
	t.Setenv(EnvHashAlgorithm, "sha512")

	c := FromEnv()

	if c.Runs != 9 {
		t.Errorf("Runs = %d, want 9", c.Runs)
	}
	if c.Warmup != 2 {
		t.Errorf("Warmup = %d, want 2", c.Warmup)
	}
	if c.SampleInterval != 250*time.Millisecond {
		t.Errorf("SampleInterval = %s, want 250ms", c.SampleInterval)
	}
	if c.FilterOutliers {
		t.Error("FilterOutliers should be disabled")
	}
	if c.HashAlgorithm != "sha512" {
		t.Errorf("HashAlgorithm = %q, want sha512", c.HashAlgorithm)
	}
}

func TestFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv(EnvRuns, "not-a-number")

	if c := FromEnv(); c.Runs != DefaultRuns {
		t.Errorf("Runs = %d, want default %d", c.Runs, DefaultRuns)
	}
}

func TestFromEnvDurationSyntax(t *testing.T) {
	t.Setenv(EnvSampleInterval, "50ms")

	if c := FromEnv(); c.SampleInterval != 50*time.Millisecond {
		t.Errorf("SampleInterval = %s, want 50ms", c.SampleInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero runs", func(c *Config) { c.Runs = 0 }, true},
		{"negative warmup", func(c *Config) { c.Warmup = -1 }, true},
		{"runs over max", func(c *Config) { c.Runs = 51 }, true},
		{"interval too small", func(c *Config) { c.SampleInterval = time.Millisecond }, true},
		{"bad threshold", func(c *Config) { c.OutlierThreshold = 0 }, true},
		{"bad normalization", func(c *Config) { c.EnergyNormalization = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
