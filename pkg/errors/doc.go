// Package errors provides structured error types for better observability
// and programmatic error handling across the benchmarking core.
//
// Every failure in the core is fail-fast: errors are surfaced to the
// caller immediately and never retried, since silently retrying a
// benchmark iteration would corrupt its statistical validity.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeSetupFailed,
//	    "failed to initialize backend",
//	    cause,
//	    map[string]interface{}{
//	        "backend": name,
//	    },
//	)
package errors
