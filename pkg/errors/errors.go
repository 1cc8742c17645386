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

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a structured error classification.
type ErrorCode string

const (
	// ErrCodeEmptyInput indicates an operation received an empty sequence
	// where at least one element is required.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"
	// ErrCodeInvalidDuration indicates a measured iteration produced a
	// non-positive duration (clock regression or measurement corruption).
	ErrCodeInvalidDuration ErrorCode = "INVALID_DURATION"
	// ErrCodeInsufficientBackends indicates a comparison was requested with
	// fewer than two backends.
	ErrCodeInsufficientBackends ErrorCode = "INSUFFICIENT_BACKENDS"
	// ErrCodeMissingIntegrity indicates a payload carries no integrity
	// envelope and therefore cannot be verified.
	ErrCodeMissingIntegrity ErrorCode = "MISSING_INTEGRITY"
	// ErrCodeInvalidWorkload indicates the workload is not invocable.
	ErrCodeInvalidWorkload ErrorCode = "INVALID_WORKLOAD"
	// ErrCodeInvalidWorkUnits indicates a workload returned a negative
	// work-unit count.
	ErrCodeInvalidWorkUnits ErrorCode = "INVALID_WORK_UNITS"
	// ErrCodeUnknownBackend indicates a backend name is not registered.
	ErrCodeUnknownBackend ErrorCode = "UNKNOWN_BACKEND"
	// ErrCodeSetupFailed indicates a backend failed to initialize.
	ErrCodeSetupFailed ErrorCode = "SETUP_FAILED"
	// ErrCodeInvalidRequest indicates malformed or invalid input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeNotFound indicates a requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an internal system error.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError provides structured error information for better observability.
// It includes an error code for programmatic handling, a human-readable message,
// the underlying cause, and optional context for debugging.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// NewWithContext creates a new StructuredError with context information.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Context: context,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// IsCode reports whether any error in err's chain is a StructuredError
// carrying the given code. Callers branch on codes, never on message text.
func IsCode(err error, code ErrorCode) bool {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// CodeOf returns the error code of the first StructuredError in err's
// chain, or ErrCodeInternal if none is present.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}
