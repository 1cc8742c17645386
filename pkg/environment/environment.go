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

package environment

import (
	"context"
	"math"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const smiTimeout = 3 * time.Second

// SafeEnvKeys is the allowlist of environment variables captured into
// reports. Everything else stays out: environment blocks routinely
// carry credentials.
var SafeEnvKeys = []string{
	"OMP_NUM_THREADS",
	"MKL_NUM_THREADS",
	"CUDA_VISIBLE_DEVICES",
}

// System identifies the host.
type System struct {
	Hostname        string `json:"hostname" yaml:"hostname"`
	Platform        string `json:"platform" yaml:"platform"`
	PlatformRelease string `json:"platform_release" yaml:"platform_release"`
}

// CPU describes the host processor.
type CPU struct {
	LogicalCores int    `json:"logical_cores" yaml:"logical_cores"`
	Architecture string `json:"architecture" yaml:"architecture"`
	Processor    string `json:"processor" yaml:"processor"`
	MaxProcs     int    `json:"max_procs" yaml:"max_procs"`
}

// Memory describes host memory capacity.
type Memory struct {
	TotalGB     float64 `json:"total_gb" yaml:"total_gb"`
	AvailableGB float64 `json:"available_gb" yaml:"available_gb"`
}

// GPUDevice describes a single accelerator.
type GPUDevice struct {
	ID            int     `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	TotalMemoryGB float64 `json:"total_memory_gb" yaml:"total_memory_gb"`
	DriverVersion string  `json:"driver_version" yaml:"driver_version"`
}

// GPU describes accelerator availability.
type GPU struct {
	Available   bool        `json:"available" yaml:"available"`
	DeviceCount int         `json:"device_count" yaml:"device_count"`
	Devices     []GPUDevice `json:"devices" yaml:"devices"`
}

// Software describes the runtime stack.
type Software struct {
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
	OS        string `json:"os" yaml:"os"`
}

// Snapshot is the full reproducibility context captured alongside every
// report, included in integrity hashing.
type Snapshot struct {
	System               System            `json:"system" yaml:"system"`
	CPU                  CPU               `json:"cpu" yaml:"cpu"`
	Memory               Memory            `json:"memory" yaml:"memory"`
	GPU                  GPU               `json:"gpu" yaml:"gpu"`
	Software             Software          `json:"software" yaml:"software"`
	EnvironmentVariables map[string]string `json:"environment_variables" yaml:"environment_variables"`
}

// Capture collects the full environment snapshot. Sections are gathered
// concurrently; the GPU probe shells out and dominates latency, the
// rest is procfs reads. Unavailable sections degrade to zero values
// rather than failing the capture.
func Capture(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		snap.System = captureSystem()
		return nil
	})
	g.Go(func() error {
		snap.CPU = captureCPU()
		return nil
	})
	g.Go(func() error {
		snap.Memory = captureMemory()
		return nil
	})
	g.Go(func() error {
		snap.GPU = captureGPU(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Software = captureSoftware()
		return nil
	})
	g.Go(func() error {
		snap.EnvironmentVariables = captureEnvVars()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func captureSystem() System {
	hostname, _ := os.Hostname()

	release := ""
	if data, err := os.ReadFile("/proc/sys/kernel/osrelease"); err == nil {
		release = strings.TrimSpace(string(data))
	}

	return System{
		Hostname:        hostname,
		Platform:        runtime.GOOS,
		PlatformRelease: release,
	}
}

func captureCPU() CPU {
	return CPU{
		LogicalCores: runtime.NumCPU(),
		Architecture: runtime.GOARCH,
		Processor:    processorModel(),
		MaxProcs:     runtime.GOMAXPROCS(0),
	}
}

// processorModel reads the first model name line of /proc/cpuinfo.
func processorModel() string {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(data), "\n") {
		if name, value, ok := strings.Cut(line, ":"); ok {
			if strings.TrimSpace(name) == "model name" {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

func captureMemory() Memory {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return Memory{}
	}

	var totalKB, availKB float64
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB, _ = strconv.ParseFloat(fields[1], 64)
		case "MemAvailable:":
			availKB, _ = strconv.ParseFloat(fields[1], 64)
		}
	}

	return Memory{
		TotalGB:     roundGB(totalKB * 1024),
		AvailableGB: roundGB(availKB * 1024),
	}
}

func captureGPU(ctx context.Context) GPU {
	gpu := GPU{Devices: []GPUDevice{}}

	smi, err := exec.LookPath("nvidia-smi")
	if err != nil {
		return gpu
	}

	ctx, cancel := context.WithTimeout(ctx, smiTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, smi,
		"--query-gpu=index,name,memory.total,driver_version",
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		return gpu
	}

	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		parts := strings.Split(line, ",")
		if len(parts) < 4 {
			continue
		}

		id, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
		memMB, _ := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)

		gpu.Devices = append(gpu.Devices, GPUDevice{
			ID:            id,
			Name:          strings.TrimSpace(parts[1]),
			TotalMemoryGB: roundGB(memMB * 1024 * 1024),
			DriverVersion: strings.TrimSpace(parts[3]),
		})
	}

	gpu.Available = len(gpu.Devices) > 0
	gpu.DeviceCount = len(gpu.Devices)
	return gpu
}

func captureSoftware() Software {
	return Software{
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		OS:        runtime.GOOS,
	}
}

func captureEnvVars() map[string]string {
	env := make(map[string]string)
	for _, key := range SafeEnvKeys {
		if value, ok := os.LookupEnv(key); ok {
			env[key] = value
		}
	}
	return env
}

func roundGB(bytes float64) float64 {
	return math.Round(bytes/(1024*1024*1024)*100) / 100
}
