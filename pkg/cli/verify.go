/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulse-bench/pulse/pkg/integrity"
	"github.com/pulse-bench/pulse/pkg/report"
)

// verifyCmd re-checks the integrity fingerprint of a report artifact.
var verifyCmd = &cobra.Command{
	Use:     "verify <report.json>",
	GroupID: "benchmark",
	Short:   "Verify the integrity fingerprint of a report artifact",
	Long: `Reload a report artifact, strip its integrity envelope, recompute the
canonical fingerprint, and compare it against the stored one. A
mismatch means the report was modified after it was written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		outFormat := report.Format(format)
		if outFormat.IsUnknown() {
			return fmt.Errorf("unknown output format: %q", format)
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read report %q: %w", args[0], err)
		}

		var payload map[string]any
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("failed to decode report %q: %w", args[0], err)
		}

		hasher, err := integrity.New()
		if err != nil {
			return err
		}

		rep, err := hasher.Report(payload)
		if err != nil {
			return err
		}

		if err := render(outFormat, rep); err != nil {
			return err
		}
		if !rep.Verified {
			return fmt.Errorf("report %q failed verification: %s", args[0], rep.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
