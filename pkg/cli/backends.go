/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pulse-bench/pulse/pkg/backend"
	"github.com/pulse-bench/pulse/pkg/report"
)

// backendInfo is the per-backend row of the backends listing.
type backendInfo struct {
	Name      string         `json:"name" yaml:"name"`
	Available bool           `json:"available" yaml:"available"`
	Device    map[string]any `json:"device,omitempty" yaml:"device,omitempty"`
}

// backendsCmd lists registered backends and probes their availability.
var backendsCmd = &cobra.Command{
	Use:     "backends",
	GroupID: "benchmark",
	Short:   "List registered backends and their availability",
	Long: `List every registered backend and probe whether it initializes on
this host. Unavailable backends are listed but cannot be profiled.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		outFormat := report.Format(format)
		if outFormat.IsUnknown() {
			return fmt.Errorf("unknown output format: %q", format)
		}

		reg := backend.NewDefaultRegistry()
		available := reg.Available()

		infos := make([]backendInfo, 0)
		for _, name := range reg.Names() {
			info := backendInfo{
				Name:      name,
				Available: slices.Contains(available, name),
			}
			if info.Available {
				if b, err := reg.Get(name); err == nil {
					if err := b.Setup(); err == nil {
						info.Device = b.DeviceInfo()
						_ = b.Teardown()
					}
				}
			}
			infos = append(infos, info)
		}

		return render(outFormat, infos)
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
