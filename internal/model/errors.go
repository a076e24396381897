package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions that abort a whole run. Per-handle
// failures never produce these; they are folded into a CheckResult instead.
var (
	// ErrMissingCredential means neither AI_COM_COOKIE nor AI_COM_TOKEN
	// was set.
	ErrMissingCredential = errors.New("missing credential")

	// ErrNoTargets means the target list was empty after merging
	// suggestions, the range and explicit handles.
	ErrNoTargets = errors.New("no handles to check")

	// ErrRangeOutOfBounds means a --range endpoint fell outside 0..9999.
	ErrRangeOutOfBounds = errors.New("range out of bounds")
)

// ExitCode defines the process exit codes of the CLI.
// Scripts can rely on these to tell a completed run from a usage problem.
type ExitCode int

const (
	// ExitSuccess indicates the run completed. Individual handles may still
	// have failed; those are reported in the summary, not via the exit code.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred (for example
	// an unreadable config file).
	ExitGeneralError ExitCode = 1

	// ExitUsage indicates the run could not start: missing credential,
	// empty target list, invalid range or invalid flags.
	ExitUsage ExitCode = 2

	// ExitInterrupted indicates the run was aborted by SIGINT/SIGTERM.
	ExitInterrupted ExitCode = 130
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitCodeOf returns the exit code carried by err. nil maps to ExitSuccess
// and errors without a CLIError in their chain map to ExitGeneralError.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
