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
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	procStat    = "/proc/stat"
	procMemInfo = "/proc/meminfo"
	procLoadAvg = "/proc/loadavg"

	smiTimeout = 2 * time.Second
)

// SystemSource reads live telemetry from procfs and, when present,
// nvidia-smi. CPU utilization is computed from consecutive /proc/stat
// deltas, so the first reading after construction is 0; call Stabilize
// to prime the counters before measurement starts.
type SystemSource struct {
	mu        sync.Mutex
	prevBusy  uint64
	prevTotal uint64
	primed    bool

	smiOnce sync.Once
	smiPath string
}

// NewSystemSource creates a live telemetry source.
func NewSystemSource() *SystemSource {
	return &SystemSource{}
}

// Stabilize primes the CPU counters so the next utilization reading
// reflects a real interval. The first raw reading is unreliable, same
// reason interval-less CPU sampling needs a warm read.
func (s *SystemSource) Stabilize() {
	s.CPUUtilization()
	time.Sleep(50 * time.Millisecond)
	s.CPUUtilization()
}

// CPUUtilization implements Source using /proc/stat busy/total deltas.
// Returns 0 on platforms without procfs.
func (s *SystemSource) CPUUtilization() float64 {
	busy, total, ok := readCPUCounters()
	if !ok {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.primed {
		s.prevBusy, s.prevTotal = busy, total
		s.primed = true
		return 0
	}

	dBusy := float64(busy - s.prevBusy)
	dTotal := float64(total - s.prevTotal)
	s.prevBusy, s.prevTotal = busy, total

	if dTotal <= 0 {
		return 0
	}
	return 100.0 * dBusy / dTotal
}

// GPUUtilization implements Source via nvidia-smi, returning 0 when the
// tool or a device is unavailable.
func (s *SystemSource) GPUUtilization() float64 {
	s.smiOnce.Do(func() {
		path, err := exec.LookPath("nvidia-smi")
		if err != nil {
			slog.Debug("nvidia-smi not found, gpu utilization reads as 0")
			return
		}
		s.smiPath = path
	})

	if s.smiPath == "" {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), smiTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, s.smiPath,
		"--query-gpu=utilization.gpu", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return 0
	}

	// Multi-GPU hosts report one line per device; use the first.
	line := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0
	}
	return v
}

// Snapshot implements Snapshotter with memory and load readings in
// addition to utilization.
func (s *SystemSource) Snapshot() Snapshot {
	snap := Snapshot{
		Timestamp:  time.Now().UTC(),
		CPUPercent: s.CPUUtilization(),
		GPUPercent: s.GPUUtilization(),
	}

	if usedMB, percent, ok := readMemInfo(); ok {
		snap.MemoryUsedMB = usedMB
		snap.MemoryPercent = percent
	}
	if l1, l5, l15, ok := readLoadAvg(); ok {
		snap.Load1, snap.Load5, snap.Load15 = l1, l5, l15
	}

	return snap
}

// readCPUCounters parses the aggregate cpu line of /proc/stat into busy
// and total jiffy counters.
func readCPUCounters() (busy, total uint64, ok bool) {
	data, err := os.ReadFile(procStat)
	if err != nil {
		return 0, 0, false
	}

	line, _, _ := strings.Cut(string(data), "\n")
	fields := strings.Fields(line)
	if len(fields) < 5 || fields[0] != "cpu" {
		return 0, 0, false
	}

	var values []uint64
	for _, f := range fields[1:] {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return 0, 0, false
		}
		values = append(values, v)
	}

	for i, v := range values {
		total += v
		// fields: user nice system idle iowait irq softirq steal ...
		if i != 3 && i != 4 {
			busy += v
		}
	}
	return busy, total, true
}

// readMemInfo returns used memory in MB and used percent.
func readMemInfo() (usedMB, percent float64, ok bool) {
	data, err := os.ReadFile(procMemInfo)
	if err != nil {
		return 0, 0, false
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

	if totalKB <= 0 {
		return 0, 0, false
	}

	usedKB := totalKB - availKB
	return usedKB / 1024.0, 100.0 * usedKB / totalKB, true
}

// readLoadAvg returns the 1/5/15 minute load averages.
func readLoadAvg() (l1, l5, l15 float64, ok bool) {
	data, err := os.ReadFile(procLoadAvg)
	if err != nil {
		return 0, 0, 0, false
	}

	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return 0, 0, 0, false
	}

	l1, _ = strconv.ParseFloat(fields[0], 64)
	l5, _ = strconv.ParseFloat(fields[1], 64)
	l15, _ = strconv.ParseFloat(fields[2], 64)
	return l1, l5, l15, true
}
