/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulse-bench/pulse/pkg/analyzer"
	"github.com/pulse-bench/pulse/pkg/backend"
	"github.com/pulse-bench/pulse/pkg/comparison"
	"github.com/pulse-bench/pulse/pkg/config"
	"github.com/pulse-bench/pulse/pkg/orchestrator"
	"github.com/pulse-bench/pulse/pkg/report"
	"github.com/pulse-bench/pulse/pkg/workload"
)

var (
	cmpBackends     []string
	cmpRuns         int
	cmpWarmup       int
	cmpMaxNewTokens int
)

// compareCmd runs identical experiments across multiple backends.
var compareCmd = &cobra.Command{
	Use:     "compare",
	GroupID: "benchmark",
	Short:   "Compare the workload across multiple backends",
	Long: `Run identical profiling experiments across two or more backends,
rank them by efficiency, throughput, stability, and energy, and produce
a final backend recommendation.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outFormat := report.Format(format)
		if outFormat.IsUnknown() {
			return fmt.Errorf("unknown output format: %q", format)
		}

		cfg := config.FromEnv()
		if cmpRuns > 0 {
			cfg.Runs = cmpRuns
		}
		if cmpWarmup >= 0 {
			cfg.Warmup = cmpWarmup
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		engine := comparison.New(
			comparison.WithRegistry(backend.NewDefaultRegistry()),
			comparison.WithAnalyzer(analyzer.New(
				analyzer.WithOutlierFiltering(cfg.FilterOutliers),
				analyzer.WithOutlierThreshold(cfg.OutlierThreshold),
				analyzer.WithEnergyNormalization(cfg.EnergyNormalization),
			)),
			comparison.WithRuns(cfg.Runs),
			comparison.WithWarmup(cfg.Warmup),
			comparison.WithOrchestratorOptions(
				orchestrator.WithSampling(cfg.EnableSampling),
				orchestrator.WithSampleInterval(cfg.SampleInterval),
			),
		)

		w := &workload.SyntheticText{MaxNewTokens: cmpMaxNewTokens}

		result, err := engine.Compare(cmd.Context(), w, cmpBackends)
		if err != nil {
			return err
		}

		if err := persist(cmd.Context(), cfg, result, nil); err != nil {
			return err
		}

		return render(outFormat, result)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringSliceVar(&cmpBackends, "backends",
		[]string{backend.NameCPU, backend.NameGPU}, "backends to compare")
	compareCmd.Flags().IntVar(&cmpRuns, "runs", 0, "measured iterations per backend (default from config)")
	compareCmd.Flags().IntVar(&cmpWarmup, "warmup", -1, "warmup iterations per backend (default from config)")
	compareCmd.Flags().IntVar(&cmpMaxNewTokens, "max-new-tokens", workload.DefaultMaxNewTokens, "token budget per synthetic prompt")
	compareCmd.Flags().BoolVar(&runNoReport, "no-report", false, "skip writing report artifacts")
	compareCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "skip storing the run in local history")
}
