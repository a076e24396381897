package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateHandle verifies that only strings of exactly four ASCII
// digits are accepted.
func TestValidateHandle(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"0000", true},
		{"1337", true},
		{"9999", true},
		{"", false},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"-123", false},
		{" 123", false},
		{"١٢٣٤", false}, // Arabic-Indic digits are not ASCII
		{"12.3", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			err := ValidateHandle(tt.input)
			if tt.valid {
				assert.NoError(t, err)
				assert.True(t, IsValidHandle(tt.input))
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidHandle))
				assert.False(t, IsValidHandle(tt.input))
			}
		})
	}
}

// TestFormatHandle checks zero padding.
func TestFormatHandle(t *testing.T) {
	assert.Equal(t, "0000", FormatHandle(0))
	assert.Equal(t, "0007", FormatHandle(7))
	assert.Equal(t, "0420", FormatHandle(420))
	assert.Equal(t, "9999", FormatHandle(MaxHandle))
}

// TestVerdictFor verifies the status → verdict mapping used by the reporter.
func TestVerdictFor(t *testing.T) {
	tests := []struct {
		status int
		want   Verdict
	}{
		{409, VerdictTaken},
		{200, VerdictAvailable},
		{201, VerdictAvailable},
		{202, VerdictAvailable},
		{204, VerdictAvailable},
		{0, VerdictInvalid},
		{-1, Verdict("ERR(-1)")},
		{203, Verdict("ERR(203)")},
		{429, Verdict("ERR(429)")},
		{500, Verdict("ERR(500)")},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, VerdictFor(tt.status))
		})
	}
}

// TestVerdict_IsError checks that only ERR(...) verdicts count as errors.
func TestVerdict_IsError(t *testing.T) {
	assert.False(t, VerdictTaken.IsError())
	assert.False(t, VerdictAvailable.IsError())
	assert.False(t, VerdictInvalid.IsError())
	assert.True(t, VerdictFor(-1).IsError())
	assert.True(t, VerdictFor(503).IsError())
}

// TestSummary_Add verifies bucket selection and that buckets keep the
// order in which handles were classified.
func TestSummary_Add(t *testing.T) {
	s := NewSummary()

	results := []CheckResult{
		{Handle: "1111", Status: 409, Note: NoteTaken},
		{Handle: "2222", Status: 204, Note: NoteAvailable},
		{Handle: "abcd", Status: StatusInvalid, Note: NoteInvalid},
		{Handle: "3333", Status: 200, Note: NoteOK},
		{Handle: "4444", Status: StatusNetworkError, Note: NoteNetworkError},
		{Handle: "5555", Status: 429, Note: NoteHTTPError},
	}

	verdicts := make([]Verdict, 0, len(results))
	for _, r := range results {
		verdicts = append(verdicts, s.Add(r))
	}

	assert.Equal(t, []Verdict{
		VerdictTaken, VerdictAvailable, VerdictInvalid,
		VerdictAvailable, "ERR(-1)", "ERR(429)",
	}, verdicts)
	assert.Equal(t, []string{"2222", "3333"}, s.Available)
	assert.Equal(t, []string{"1111"}, s.Taken)
	assert.Equal(t, []string{"abcd", "4444", "5555"}, s.Errors)
	assert.Equal(t, 6, s.Total())
}

// TestNewSummary_NonNilBuckets ensures JSON output renders empty arrays.
func TestNewSummary_NonNilBuckets(t *testing.T) {
	s := NewSummary()
	assert.NotNil(t, s.Available)
	assert.NotNil(t, s.Taken)
	assert.NotNil(t, s.Errors)
	assert.Equal(t, 0, s.Total())
}

// TestCLIError verifies message formatting and unwrap behavior.
func TestCLIError(t *testing.T) {
	plain := NewCLIError(ExitUsage, "no handles")
	assert.Equal(t, "no handles", plain.Error())
	assert.Nil(t, plain.Unwrap())

	wrapped := WrapCLIError(ExitUsage, "bad range", ErrRangeOutOfBounds)
	assert.Equal(t, "bad range: range out of bounds", wrapped.Error())
	assert.True(t, errors.Is(wrapped, ErrRangeOutOfBounds))
}

// TestExitCodeOf verifies exit code extraction through wrapping layers.
func TestExitCodeOf(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCodeOf(nil))
	assert.Equal(t, ExitGeneralError, ExitCodeOf(errors.New("boom")))
	assert.Equal(t, ExitUsage, ExitCodeOf(NewCLIError(ExitUsage, "x")))

	nested := fmt.Errorf("outer: %w", WrapCLIError(ExitInterrupted, "interrupted", nil))
	assert.Equal(t, ExitInterrupted, ExitCodeOf(nested))
}
