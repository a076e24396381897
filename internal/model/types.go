// Package model defines the domain types for the handlecheck CLI.
//
// All entities in this package represent the core data structures of a
// check run: the 4-digit handle, the result of checking one handle, the
// human-readable verdict derived from it, and the summary buckets that
// accumulate verdicts over a run.
package model

import (
	"errors"
	"fmt"
)

// HandleLength is the exact number of ASCII digits a handle must have.
const HandleLength = 4

// MaxHandle is the largest numeric value a handle can represent ("9999").
const MaxHandle = 9999

// ErrInvalidHandle is returned by ValidateHandle for anything that is not
// exactly four ASCII digits.
var ErrInvalidHandle = errors.New("invalid handle: must be 4 digits")

// ValidateHandle checks that s is exactly four ASCII digits.
//
// Only the bytes '0'..'9' are accepted. Non-ASCII digit runes (e.g. Arabic-Indic
// digits) are rejected so that every valid handle is also a valid zero-padded
// decimal in the range 0000-9999.
func ValidateHandle(s string) error {
	if len(s) != HandleLength {
		return fmt.Errorf("%w: %q", ErrInvalidHandle, s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidHandle, s)
		}
	}
	return nil
}

// IsValidHandle reports whether s passes ValidateHandle.
func IsValidHandle(s string) bool {
	return ValidateHandle(s) == nil
}

// FormatHandle renders n as a zero-padded 4-digit handle (e.g. 7 → "0007").
// Callers are responsible for keeping n within 0..MaxHandle.
func FormatHandle(n int) string {
	return fmt.Sprintf("%04d", n)
}

// Pseudo status codes used in CheckResult.Status alongside real HTTP codes.
const (
	// StatusInvalid marks a handle that failed validation. No network call
	// was made for it.
	StatusInvalid = 0

	// StatusNetworkError marks a transport failure (or any outcome that
	// produced no HTTP status at all).
	StatusNetworkError = -1
)

// Notes attached to a CheckResult. They describe which branch of the
// checker produced the result and are printed next to the verdict.
const (
	NoteInvalid      = "invalid (must be 4 digits)"
	NoteOK           = "ok"
	NoteTaken        = "taken"
	NoteAvailable    = "available?"
	NoteHTTPError    = "http error"
	NoteNetworkError = "network error"
	NoteUnexpected   = "unexpected"
	NoteCancelled    = "cancelled"
)

// CheckResult is the outcome of checking a single handle.
type CheckResult struct {
	// Handle is the handle exactly as it was supplied (it may be invalid).
	Handle string `json:"handle"`

	// Status is an HTTP status code, StatusInvalid (0) or
	// StatusNetworkError (-1).
	Status int `json:"status"`

	// Note names the checker branch that produced this result.
	Note string `json:"note"`

	// Attempts is the number of HTTP requests that were sent. Zero for
	// invalid handles.
	Attempts int `json:"attempts"`
}

// Verdict returns the display verdict for this result.
func (r CheckResult) Verdict() Verdict {
	return VerdictFor(r.Status)
}

// Verdict is the human-readable classification of a CheckResult.
type Verdict string

const (
	// VerdictTaken is used for HTTP 409, which the API returns for handles
	// already claimed by someone else.
	VerdictTaken Verdict = "TAKEN"

	// VerdictAvailable is used for the 2xx family (200/201/202/204).
	VerdictAvailable Verdict = "AVAILABLE"

	// VerdictInvalid is used for handles rejected before any request.
	VerdictInvalid Verdict = "INVALID"
)

// String returns the string representation of Verdict.
func (v Verdict) String() string {
	return string(v)
}

// IsError reports whether the verdict is an ERR(<status>) verdict.
func (v Verdict) IsError() bool {
	switch v {
	case VerdictTaken, VerdictAvailable, VerdictInvalid:
		return false
	default:
		return true
	}
}

// IsAvailableStatus reports whether status belongs to the set of success
// codes the API uses to signal an unclaimed handle.
func IsAvailableStatus(status int) bool {
	switch status {
	case 200, 201, 202, 204:
		return true
	default:
		return false
	}
}

// VerdictFor maps a status code to its verdict:
//
//	409              → TAKEN
//	200/201/202/204  → AVAILABLE
//	0                → INVALID
//	anything else    → ERR(<status>)
func VerdictFor(status int) Verdict {
	switch {
	case status == 409:
		return VerdictTaken
	case IsAvailableStatus(status):
		return VerdictAvailable
	case status == StatusInvalid:
		return VerdictInvalid
	default:
		return Verdict(fmt.Sprintf("ERR(%d)", status))
	}
}

// Summary accumulates handles into three buckets as a run progresses.
// Bucket order is the order in which handles were classified.
type Summary struct {
	Available []string `json:"available"`
	Taken     []string `json:"taken"`

	// Errors holds both invalid handles and every ERR(<status>) verdict.
	Errors []string `json:"errors"`
}

// NewSummary returns a Summary with empty, non-nil buckets so that JSON
// output renders [] rather than null.
func NewSummary() Summary {
	return Summary{
		Available: []string{},
		Taken:     []string{},
		Errors:    []string{},
	}
}

// Add files the result's handle into the bucket matching its verdict and
// returns that verdict.
func (s *Summary) Add(r CheckResult) Verdict {
	v := r.Verdict()
	switch v {
	case VerdictAvailable:
		s.Available = append(s.Available, r.Handle)
	case VerdictTaken:
		s.Taken = append(s.Taken, r.Handle)
	default:
		s.Errors = append(s.Errors, r.Handle)
	}
	return v
}

// Total returns the number of handles recorded across all buckets.
func (s Summary) Total() int {
	return len(s.Available) + len(s.Taken) + len(s.Errors)
}
