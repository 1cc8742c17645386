// Package orchestrator executes deterministic profiling experiments.
//
// # Lifecycle
//
// An experiment moves through setup, warmup iterations, measured
// iterations, and teardown:
//
//	Idle → BackendSetup → {Warmup* → Measured*} → BackendTeardown → Done
//
// Teardown runs on every exit path, including setup and iteration
// failures, and its own errors are logged rather than propagated so
// they never mask the primary cause.
//
// # Measurement
//
// Each iteration optionally starts a background telemetry sampler,
// captures a pre-execution snapshot, times the backend run with the
// monotonic clock, captures a post-execution snapshot, and stops the
// sampler. The sampler's time series therefore fully brackets the
// measured interval. A non-positive duration aborts the experiment with
// an INVALID_DURATION error: a clock regression invalidates the whole
// run set.
//
// # Usage
//
//	orch, err := orchestrator.New(backend, workload,
//	    orchestrator.WithRuns(5),
//	    orchestrator.WithWarmup(1),
//	)
//	if err != nil {
//	    return err
//	}
//
//	results, err := orch.Execute(ctx)
//	if err != nil {
//	    return err
//	}
//	// results feed the analyzer
//
// # Observability
//
// The package exports Prometheus metrics for experiment and iteration
// durations, iteration outcomes, and sampler output size.
package orchestrator
