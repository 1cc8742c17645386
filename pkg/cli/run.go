/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulse-bench/pulse/pkg/analyzer"
	"github.com/pulse-bench/pulse/pkg/backend"
	"github.com/pulse-bench/pulse/pkg/config"
	"github.com/pulse-bench/pulse/pkg/environment"
	"github.com/pulse-bench/pulse/pkg/history"
	"github.com/pulse-bench/pulse/pkg/integrity"
	"github.com/pulse-bench/pulse/pkg/orchestrator"
	"github.com/pulse-bench/pulse/pkg/recommender"
	"github.com/pulse-bench/pulse/pkg/report"
	"github.com/pulse-bench/pulse/pkg/workload"
)

var (
	runBackend      string
	runRuns         int
	runWarmup       int
	runInterval     time.Duration
	runNoSampling   bool
	runMaxNewTokens int
	runNoReport     bool
	runNoHistory    bool
)

// runCmd executes a profiling experiment on a single backend.
var runCmd = &cobra.Command{
	Use:     "run",
	GroupID: "benchmark",
	Short:   "Execute a profiling experiment on one backend",
	Long: `Execute a profiling experiment: backend setup, warmup iterations,
repeated measured iterations with concurrent telemetry sampling, and
statistical analysis with an operational-mode recommendation.

A verifiable JSON report plus a CSV summary are written to the report
directory, and the signed payload is stored in the local run history.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outFormat := report.Format(format)
		if outFormat.IsUnknown() {
			return fmt.Errorf("unknown output format: %q", format)
		}

		cfg := config.FromEnv()
		applyRunFlags(cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		reg := backend.NewDefaultRegistry()
		b, err := reg.Get(runBackend)
		if err != nil {
			return err
		}

		w := &workload.SyntheticText{MaxNewTokens: runMaxNewTokens}

		orch, err := orchestrator.New(b, w,
			orchestrator.WithRuns(cfg.Runs),
			orchestrator.WithWarmup(cfg.Warmup),
			orchestrator.WithSampling(cfg.EnableSampling),
			orchestrator.WithSampleInterval(cfg.SampleInterval),
		)
		if err != nil {
			return err
		}

		runs, err := orch.Execute(cmd.Context())
		if err != nil {
			return err
		}

		analysis, err := analyzer.New(
			analyzer.WithOutlierFiltering(cfg.FilterOutliers),
			analyzer.WithOutlierThreshold(cfg.OutlierThreshold),
			analyzer.WithEnergyNormalization(cfg.EnergyNormalization),
		).Analyze(runs)
		if err != nil {
			return err
		}

		rec, err := recommender.Recommend(analysis)
		if err != nil {
			return err
		}

		result := map[string]any{
			"analysis":       analysis,
			"recommendation": rec,
		}

		exp := orch.Experiment()
		if err := persist(cmd.Context(), cfg, result, &exp); err != nil {
			return err
		}

		return render(outFormat, result)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runBackend, "backend", backend.NameCPU, "backend to profile (cpu, gpu)")
	runCmd.Flags().IntVar(&runRuns, "runs", 0, "measured iterations (default from config)")
	runCmd.Flags().IntVar(&runWarmup, "warmup", -1, "warmup iterations (default from config)")
	runCmd.Flags().DurationVar(&runInterval, "sample-interval", 0, "telemetry sampling interval")
	runCmd.Flags().BoolVar(&runNoSampling, "no-sampling", false, "disable background telemetry sampling")
	runCmd.Flags().IntVar(&runMaxNewTokens, "max-new-tokens", workload.DefaultMaxNewTokens, "token budget per synthetic prompt")
	runCmd.Flags().BoolVar(&runNoReport, "no-report", false, "skip writing report artifacts")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "skip storing the run in local history")
}

func applyRunFlags(cfg *config.Config) {
	if runRuns > 0 {
		cfg.Runs = runRuns
	}
	if runWarmup >= 0 {
		cfg.Warmup = runWarmup
	}
	if runInterval > 0 {
		cfg.SampleInterval = runInterval
	}
	if runNoSampling {
		cfg.EnableSampling = false
	}
}

// persist captures the environment, signs the payload, and writes the
// report artifacts and history entry.
func persist(ctx context.Context, cfg *config.Config, result any, exp *orchestrator.Experiment) error {
	if runNoReport && runNoHistory {
		return nil
	}

	env, err := environment.Capture(ctx)
	if err != nil {
		return fmt.Errorf("failed to capture environment: %w", err)
	}

	hasher, err := integrity.New(integrity.WithAlgorithm(cfg.HashAlgorithm))
	if err != nil {
		return err
	}

	sink, err := report.New(
		report.WithDir(cfg.ReportDir),
		report.WithHasher(hasher),
	)
	if err != nil {
		return err
	}

	payload, err := sink.BuildPayload(result, env, exp)
	if err != nil {
		return err
	}

	if !runNoReport {
		path, err := sink.Write(payload)
		if err != nil {
			return err
		}
		slog.Info("report written", "path", path)
	}

	if !runNoHistory {
		store, err := history.Open(cfg.HistoryDir, history.WithHasher(hasher))
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Put(payload); err != nil {
			return err
		}
		slog.Info("run stored in history", "run_id", payload["run_id"])
	}

	return nil
}

// render writes the result to the output path or stdout in the chosen
// format.
func render(f report.Format, v any) error {
	var out io.Writer = os.Stdout

	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", output, err)
		}
		defer file.Close()
		out = file
	}

	return report.NewWriter(f, out).Render(v)
}
