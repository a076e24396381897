package runner

import (
	"context"
	"math/rand"
	"time"

	"github.com/shinji-kodama/handlecheck/internal/checker"
)

// Pacer computes and waits out the pause between two requests:
//
//	pause = max(0, DelayMS + U[0, JitterMS]) milliseconds
type Pacer struct {
	DelayMS  int
	JitterMS int

	// IntN returns a uniform value in [0, n). Defaults to math/rand.
	IntN func(n int) int

	// Sleeper performs the wait. Defaults to checker.ContextSleeper.
	Sleeper checker.Sleeper
}

// Next returns the next pause. Jitter is inclusive of JitterMS.
func (p Pacer) Next() time.Duration {
	jitter := 0
	if p.JitterMS > 0 {
		intN := p.IntN
		if intN == nil {
			intN = rand.Intn
		}
		jitter = intN(p.JitterMS + 1)
	}
	ms := p.DelayMS + jitter
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Wait sleeps for Next().
func (p Pacer) Wait(ctx context.Context) (time.Duration, error) {
	d := p.Next()
	sleeper := p.Sleeper
	if sleeper == nil {
		sleeper = checker.ContextSleeper{}
	}
	return d, sleeper.Sleep(ctx, d)
}
