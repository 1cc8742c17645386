/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pulse-bench/pulse/pkg/config"
	"github.com/pulse-bench/pulse/pkg/history"
	"github.com/pulse-bench/pulse/pkg/server"
)

var servePort int

// serveCmd exposes the run history over HTTP.
var serveCmd = &cobra.Command{
	Use:     "serve",
	GroupID: "benchmark",
	Short:   "Serve stored runs and metrics over HTTP",
	Long: `Start an HTTP server exposing the local run history (listing,
retrieval, integrity re-verification) plus health probes and Prometheus
metrics. Shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.FromEnv()

		store, err := history.Open(cfg.HistoryDir)
		if err != nil {
			return err
		}
		defer store.Close()

		serverCfg := server.DefaultConfig()
		if servePort > 0 {
			serverCfg.Port = servePort
		}

		return server.New(serverCfg, store).Start(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default 8080 or $PORT)")
}
