// Package model defines the domain types and value objects for the
// handlecheck CLI.
//
// This package contains pure data structures with no external dependencies.
// A run is fully transient: handles, check results and the summary buckets
// live only for the duration of one process, and nothing is persisted.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
