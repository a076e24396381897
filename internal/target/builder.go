// Package target builds the ordered, duplicate-free list of handles a run
// will check.
//
// Targets come from three groups, always merged in this order:
//  1. generated candidates (--suggest)
//  2. an inclusive numeric range (--range START END)
//  3. explicit handles (positional arguments and config file)
//
// Explicit handles are not validated here. Malformed ones are kept in the
// list so the checker can report them as INVALID.
package target

import (
	"fmt"

	"github.com/shinji-kodama/handlecheck/internal/model"
)

// Range is an inclusive numeric handle range.
type Range struct {
	Start int
	End   int
}

// Normalize swaps Start and End when they are reversed, then checks that
// both fall within 0..9999.
func (r Range) Normalize() (Range, error) {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	if r.Start < 0 || r.End > model.MaxHandle {
		return Range{}, fmt.Errorf("%w: %d..%d (must be within 0..%d)",
			model.ErrRangeOutOfBounds, r.Start, r.End, model.MaxHandle)
	}
	return r, nil
}

// Len returns the number of handles in a normalized range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// ExpandRange returns the zero-padded handles from start to end inclusive.
// Reversed bounds are swapped first.
//
// Example:
//
//	ExpandRange(1002, 1000) → ["1000", "1001", "1002"]
func ExpandRange(start, end int) ([]string, error) {
	r, err := Range{Start: start, End: end}.Normalize()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, r.Len())
	for i := r.Start; i <= r.End; i++ {
		out = append(out, model.FormatHandle(i))
	}
	return out, nil
}

// Build concatenates the groups in order and removes duplicates, keeping
// the first occurrence of each handle.
func Build(groups ...[]string) []string {
	total := 0
	for _, g := range groups {
		total += len(g)
	}

	seen := make(map[string]struct{}, total)
	out := make([]string, 0, total)
	for _, g := range groups {
		for _, h := range g {
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	return out
}
