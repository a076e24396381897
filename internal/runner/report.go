package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shinji-kodama/handlecheck/internal/model"
)

// maxListedAvailable bounds how many available handles the text summary
// spells out.
const maxListedAvailable = 50

// Reporter receives each verdict as it is produced and the final summary.
type Reporter interface {
	Result(idx, total int, r model.CheckResult, v model.Verdict) error
	Finish(s model.Summary) error
}

// TextReporter prints one progress line per handle and a plain summary:
//
//	[1/3] 1337: TAKEN (taken)
//	[2/3] 4242: AVAILABLE (ok)
//	[3/3] 12a4: INVALID (invalid (must be 4 digits))
//
//	Summary
//	available: 1
//	  4242
//	taken: 1
//	errors/invalid: 1
type TextReporter struct {
	w         io.Writer
	color     bool
	available lipgloss.Style
	taken     lipgloss.Style
	failed    lipgloss.Style
}

// NewTextReporter writes to w. Verdicts are coloured when color is true
// and w is a terminal that supports it.
func NewTextReporter(w io.Writer, color bool) *TextReporter {
	r := lipgloss.NewRenderer(w)
	return &TextReporter{
		w:         w,
		color:     color,
		available: r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		taken:     r.NewStyle().Foreground(lipgloss.Color("8")),
		failed:    r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (t *TextReporter) style(v model.Verdict) string {
	if !t.color {
		return v.String()
	}
	switch v {
	case model.VerdictAvailable:
		return t.available.Render(v.String())
	case model.VerdictTaken:
		return t.taken.Render(v.String())
	default:
		return t.failed.Render(v.String())
	}
}

// Result implements Reporter.
func (t *TextReporter) Result(idx, total int, r model.CheckResult, v model.Verdict) error {
	_, err := fmt.Fprintf(t.w, "[%d/%d] %s: %s (%s)\n", idx, total, r.Handle, t.style(v), r.Note)
	return err
}

// Finish implements Reporter.
func (t *TextReporter) Finish(s model.Summary) error {
	var b strings.Builder
	b.WriteString("\nSummary\n")
	fmt.Fprintf(&b, "available: %d\n", len(s.Available))
	if len(s.Available) > 0 {
		b.WriteString("  " + FormatAvailable(s.Available) + "\n")
	}
	fmt.Fprintf(&b, "taken: %d\n", len(s.Taken))
	fmt.Fprintf(&b, "errors/invalid: %d\n", len(s.Errors))
	_, err := io.WriteString(t.w, b.String())
	return err
}

// FormatAvailable joins up to the first 50 handles with ", " and appends
// " ..." when the list was truncated.
func FormatAvailable(handles []string) string {
	if len(handles) <= maxListedAvailable {
		return strings.Join(handles, ", ")
	}
	return strings.Join(handles[:maxListedAvailable], ", ") + " ..."
}

// JSONReporter prints nothing while the run is in progress and one indented
// JSON document when it finishes.
type JSONReporter struct {
	w       io.Writer
	runID   string
	results []resultJSON
}

// resultJSON is one entry of the "results" array.
type resultJSON struct {
	Handle   string `json:"handle"`
	Status   int    `json:"status"`
	Note     string `json:"note"`
	Verdict  string `json:"verdict"`
	Attempts int    `json:"attempts"`
}

// countsJSON mirrors the three counters of the text summary.
type countsJSON struct {
	Available int `json:"available"`
	Taken     int `json:"taken"`
	Errors    int `json:"errors"`
}

// reportJSON is the top-level JSON document.
type reportJSON struct {
	RunID   string        `json:"runId"`
	Results []resultJSON  `json:"results"`
	Summary model.Summary `json:"summary"`
	Counts  countsJSON    `json:"counts"`
}

// NewJSONReporter writes to w and stamps the document with runID.
func NewJSONReporter(w io.Writer, runID string) *JSONReporter {
	return &JSONReporter{w: w, runID: runID, results: []resultJSON{}}
}

// Result implements Reporter.
func (j *JSONReporter) Result(_, _ int, r model.CheckResult, v model.Verdict) error {
	j.results = append(j.results, resultJSON{
		Handle:   r.Handle,
		Status:   r.Status,
		Note:     r.Note,
		Verdict:  v.String(),
		Attempts: r.Attempts,
	})
	return nil
}

// Finish implements Reporter.
func (j *JSONReporter) Finish(s model.Summary) error {
	doc := reportJSON{
		RunID:   j.runID,
		Results: j.results,
		Summary: s,
		Counts: countsJSON{
			Available: len(s.Available),
			Taken:     len(s.Taken),
			Errors:    len(s.Errors),
		},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintln(j.w, string(data))
	return err
}
