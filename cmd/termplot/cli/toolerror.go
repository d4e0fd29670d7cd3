// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors so scripts and the exit code
// can tell bad input from an unavailable server.
type ErrorCategory string

const (
	// CategoryValidation indicates invalid input: unknown flags, bad
	// flag values, an invalid configuration file. Fix the input and
	// retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryTransient indicates a temporary failure such as a refused
	// connection to the status socket. Retrying may succeed.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected failure: I/O errors on
	// the output sink, a listener that dies.
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps each category to the process exit code. 1 is left
// for uncategorized errors.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryTransient:  3,
	CategoryInternal:   1,
}

// ToolError is a categorized error returned by commands. It wraps an
// inner error, preserving the chain for errors.Is and errors.As. Use
// the category constructors rather than building one directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message. The category travels
// only in the exit code.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may
// succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// StatusCode returns the process exit code for the error's category.
// process.Fatal prints the error and exits with this code.
func (e *ToolError) StatusCode() int {
	if code, ok := exitCodes[e.Category]; ok {
		return code
	}
	return 1
}
