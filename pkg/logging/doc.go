// Package logging provides structured logging utilities for the pulse
// benchmarking tool.
//
// It wraps the standard library slog package with pulse-specific defaults
// for consistent logging across the CLI and library packages: JSON output
// to stderr, module/version context injection, environment-based level
// configuration (LOG_LEVEL), and source location tracking for debug logs.
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("pulse", version)
//
//	    slog.Info("experiment starting", "backend", "cpu", "runs", 5)
//	}
//
// The benchmarking core itself logs only through slog and never writes to
// stdout; stdout is reserved for serialized results.
package logging
