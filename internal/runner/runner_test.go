package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shinji-kodama/handlecheck/internal/checker"
	"github.com/shinji-kodama/handlecheck/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixedChecker answers from a map of handle → status and records call order.
type fixedChecker struct {
	statuses map[string]int
	calls    []string
}

func (f *fixedChecker) Check(_ context.Context, h string) model.CheckResult {
	f.calls = append(f.calls, h)
	if !model.IsValidHandle(h) {
		return model.CheckResult{Handle: h, Status: model.StatusInvalid, Note: model.NoteInvalid}
	}
	status := f.statuses[h]
	note := model.NoteOK
	switch {
	case status == 409:
		note = model.NoteTaken
	case status == -1:
		note = model.NoteNetworkError
	case status >= 400:
		note = model.NoteHTTPError
	}
	return model.CheckResult{Handle: h, Status: status, Note: note, Attempts: 1}
}

// recordingSleeper remembers requested pauses without sleeping.
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

// TestRun_TextOutput verifies the progress lines, bucket assignment and
// summary format.
func TestRun_TextOutput(t *testing.T) {
	fc := &fixedChecker{statuses: map[string]int{
		"1337": 409,
		"4242": 204,
		"0000": 200,
		"5555": -1,
		"6666": 500,
	}}
	sl := &recordingSleeper{}
	var out bytes.Buffer

	r := New(fc,
		Pacer{DelayMS: 350, JitterMS: 150, IntN: func(int) int { return 0 }, Sleeper: sl},
		NewTextReporter(&out, false),
		nil,
	)

	targets := []string{"1337", "4242", "12a4", "0000", "5555", "6666"}
	summary, err := r.Run(context.Background(), targets)
	require.NoError(t, err)

	assert.Equal(t, targets, fc.calls)
	assert.Equal(t, []string{"4242", "0000"}, summary.Available)
	assert.Equal(t, []string{"1337"}, summary.Taken)
	assert.Equal(t, []string{"12a4", "5555", "6666"}, summary.Errors)

	want := strings.Join([]string{
		"[1/6] 1337: TAKEN (taken)",
		"[2/6] 4242: AVAILABLE (ok)",
		"[3/6] 12a4: INVALID (invalid (must be 4 digits))",
		"[4/6] 0000: AVAILABLE (ok)",
		"[5/6] 5555: ERR(-1) (network error)",
		"[6/6] 6666: ERR(500) (http error)",
		"",
		"Summary",
		"available: 2",
		"  4242, 0000",
		"taken: 1",
		"errors/invalid: 3",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())

	// One pause between each pair of handles, none after the last.
	assert.Len(t, sl.delays, len(targets)-1)
	for _, d := range sl.delays {
		assert.Equal(t, 350*time.Millisecond, d)
	}
}

// TestRun_SingleHandleNoPause verifies no pacing happens after the last
// (and only) handle.
func TestRun_SingleHandleNoPause(t *testing.T) {
	sl := &recordingSleeper{}
	var out bytes.Buffer
	r := New(&fixedChecker{statuses: map[string]int{"2020": 409}},
		Pacer{DelayMS: 100, Sleeper: sl}, NewTextReporter(&out, false), nil)

	summary, err := r.Run(context.Background(), []string{"2020"})
	require.NoError(t, err)
	assert.Empty(t, sl.delays)
	assert.Equal(t, []string{"2020"}, summary.Taken)
	assert.NotContains(t, out.String(), "  ", "no available list when bucket is empty")
}

// TestRun_Cancelled stops after the handle in flight without reporting it
// and without printing the summary.
func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fc := &fixedChecker{statuses: map[string]int{"0001": 204, "0002": 204}}
	sl := checker.SleepFunc(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})
	var out bytes.Buffer

	summary, err := New(fc, Pacer{Sleeper: sl}, NewTextReporter(&out, false), nil).
		Run(ctx, []string{"0001", "0002", "0003"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"0001"}, summary.Available)
	assert.Equal(t, []string{"0001"}, fc.calls)
	assert.Equal(t, "[1/3] 0001: AVAILABLE (ok)\n", out.String())
}

// TestRun_JSONOutput verifies the JSON document structure.
func TestRun_JSONOutput(t *testing.T) {
	fc := &fixedChecker{statuses: map[string]int{"1337": 409, "4242": 201}}
	var out bytes.Buffer

	r := New(fc, Pacer{Sleeper: &recordingSleeper{}}, NewJSONReporter(&out, "run-1"), nil)
	_, err := r.Run(context.Background(), []string{"1337", "4242", "x"})
	require.NoError(t, err)

	var doc struct {
		RunID   string `json:"runId"`
		Results []struct {
			Handle   string `json:"handle"`
			Status   int    `json:"status"`
			Note     string `json:"note"`
			Verdict  string `json:"verdict"`
			Attempts int    `json:"attempts"`
		} `json:"results"`
		Summary struct {
			Available []string `json:"available"`
			Taken     []string `json:"taken"`
			Errors    []string `json:"errors"`
		} `json:"summary"`
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))

	assert.Equal(t, "run-1", doc.RunID)
	require.Len(t, doc.Results, 3)
	assert.Equal(t, "TAKEN", doc.Results[0].Verdict)
	assert.Equal(t, "AVAILABLE", doc.Results[1].Verdict)
	assert.Equal(t, 201, doc.Results[1].Status)
	assert.Equal(t, "INVALID", doc.Results[2].Verdict)
	assert.Equal(t, 0, doc.Results[2].Attempts)
	assert.Equal(t, []string{"4242"}, doc.Summary.Available)
	assert.Equal(t, []string{"1337"}, doc.Summary.Taken)
	assert.Equal(t, []string{"x"}, doc.Summary.Errors)
	assert.Equal(t, map[string]int{"available": 1, "taken": 1, "errors": 1}, doc.Counts)
}

// TestFormatAvailable verifies the 50-entry cut-off.
func TestFormatAvailable(t *testing.T) {
	assert.Equal(t, "0001", FormatAvailable([]string{"0001"}))

	fifty := make([]string, 50)
	for i := range fifty {
		fifty[i] = model.FormatHandle(i)
	}
	assert.False(t, strings.HasSuffix(FormatAvailable(fifty), "..."))
	assert.Equal(t, 49, strings.Count(FormatAvailable(fifty), ", "))

	fiftyOne := append(fifty, "0050")
	got := FormatAvailable(fiftyOne)
	assert.True(t, strings.HasSuffix(got, "0049 ..."), got)
	assert.NotContains(t, got, "0050")
}

// TestPacer_Next checks the delay formula, the inclusive jitter bound and
// the floor at zero.
func TestPacer_Next(t *testing.T) {
	var asked []int
	maxRand := func(n int) int {
		asked = append(asked, n)
		return n - 1
	}

	tests := []struct {
		name  string
		pacer Pacer
		want  time.Duration
		wantN []int
	}{
		{"delay plus max jitter", Pacer{DelayMS: 350, JitterMS: 150, IntN: maxRand}, 500 * time.Millisecond, []int{151}},
		{"no jitter skips rand", Pacer{DelayMS: 200, IntN: maxRand}, 200 * time.Millisecond, nil},
		{"negative jitter skips rand", Pacer{DelayMS: 200, JitterMS: -10, IntN: maxRand}, 200 * time.Millisecond, nil},
		{"negative total floors at zero", Pacer{DelayMS: -500, JitterMS: 100, IntN: maxRand}, 0, []int{101}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asked = nil
			assert.Equal(t, tt.want, tt.pacer.Next())
			assert.Equal(t, tt.wantN, asked)
		})
	}
}

// TestPacer_DefaultRandBounds samples the default random source and checks
// the pause stays within [delay, delay+jitter].
func TestPacer_DefaultRandBounds(t *testing.T) {
	p := Pacer{DelayMS: 10, JitterMS: 5}
	for i := 0; i < 200; i++ {
		d := p.Next()
		require.GreaterOrEqual(t, d, 10*time.Millisecond, fmt.Sprint(d))
		require.LessOrEqual(t, d, 15*time.Millisecond, fmt.Sprint(d))
	}
}
