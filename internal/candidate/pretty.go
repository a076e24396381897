// Package candidate generates handles that people tend to find pleasing.
//
// Generation is deterministic and side-effect free: Pretty always returns
// the same ascending list, built from three rule families:
//   - repeated digits (aaaa)
//   - alternating and mirrored pairs (abab, abba)
//   - a short curated list of "nice" numbers (1337, 2468, 9876, ...)
package candidate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shinji-kodama/handlecheck/internal/model"
)

// Source names a candidate generator selectable with --suggest.
type Source string

const (
	// SourcePretty selects the curated pattern generator.
	SourcePretty Source = "pretty"
)

// String returns the string representation of Source.
func (s Source) String() string {
	return string(s)
}

// ParseSource converts a --suggest value into a Source. The empty string
// means "no suggestions" and is returned as-is without error.
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(s)); src {
	case "", SourcePretty:
		return src, nil
	default:
		return "", fmt.Errorf("invalid suggest source %q (valid: %s)", s, SourcePretty)
	}
}

// curated holds hand-picked handles that do not fall out of the pattern
// rules (or do, but are worth listing explicitly).
var curated = []string{
	"0001", "0010", "0101", "0110", "0123", "0220", "0246",
	"1110", "1212", "1313", "1337", "1414", "1515", "1616",
	"1717", "1818", "1919", "2000", "2020", "2121", "2220",
	"2345", "2468", "3030", "4040", "5050", "6060", "7070",
	"8080", "9000", "9876",
}

// Pretty returns every generated candidate, deduplicated and sorted
// ascending. The returned slice is freshly allocated on each call.
func Pretty() []string {
	set := make(map[string]struct{}, 256)

	for a := 0; a <= 9; a++ {
		set[fmt.Sprintf("%d%d%d%d", a, a, a, a)] = struct{}{}
	}
	for a := 0; a <= 9; a++ {
		for b := 0; b <= 9; b++ {
			set[fmt.Sprintf("%d%d%d%d", a, b, a, b)] = struct{}{}
			set[fmt.Sprintf("%d%d%d%d", a, b, b, a)] = struct{}{}
		}
	}
	for _, s := range curated {
		set[s] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		if model.IsValidHandle(s) {
			out = append(out, s)
		}
	}
	// All entries are fixed-width digit strings, so lexicographic order is
	// numeric order.
	sort.Strings(out)
	return out
}

// Top returns the first n candidates of Pretty. Negative n yields an empty
// list, and n larger than the candidate count yields all of them.
func Top(n int) []string {
	all := Pretty()
	if n < 0 {
		n = 0
	}
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// Generate returns up to top candidates from the given source. The empty
// source yields nil.
func Generate(src Source, top int) []string {
	switch src {
	case SourcePretty:
		return Top(top)
	default:
		return nil
	}
}
