/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulse-bench/pulse/pkg/config"
	"github.com/pulse-bench/pulse/pkg/history"
	"github.com/pulse-bench/pulse/pkg/report"
)

// historyCmd groups operations on the local run history store.
var historyCmd = &cobra.Command{
	Use:     "history",
	GroupID: "benchmark",
	Short:   "Browse and verify previously stored runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withStore(func(s *history.Store, f report.Format) error {
			entries, err := s.List()
			if err != nil {
				return err
			}
			return render(f, entries)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a stored run payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withStore(func(s *history.Store, f report.Format) error {
			payload, err := s.Get(args[0])
			if err != nil {
				return err
			}
			return render(f, payload)
		})
	},
}

var historyVerifyCmd = &cobra.Command{
	Use:   "verify <run-id>",
	Short: "Re-verify a stored run's integrity",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withStore(func(s *history.Store, f report.Format) error {
			rep, err := s.Verify(args[0])
			if err != nil {
				return err
			}
			if err := render(f, rep); err != nil {
				return err
			}
			if !rep.Verified {
				return fmt.Errorf("run %q failed verification: %s", args[0], rep.Status)
			}
			return nil
		})
	},
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff <baseline-run-id> <candidate-run-id>",
	Short: "Compare headline metrics between two stored runs",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return withStore(func(s *history.Store, f report.Format) error {
			d, err := s.Diff(args[0], args[1])
			if err != nil {
				return err
			}
			return render(f, d)
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return withStore(func(s *history.Store, _ report.Format) error {
			return s.Delete(args[0])
		})
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyVerifyCmd, historyDiffCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

// withStore opens the history store, validates the output format, and
// guarantees the store is closed after fn runs.
func withStore(fn func(*history.Store, report.Format) error) error {
	outFormat := report.Format(format)
	if outFormat.IsUnknown() {
		return fmt.Errorf("unknown output format: %q", format)
	}

	cfg := config.FromEnv()
	store, err := history.Open(cfg.HistoryDir)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store, outFormat)
}
