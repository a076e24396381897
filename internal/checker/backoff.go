package checker

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Backoff describes a bounded exponential backoff without jitter.
type Backoff struct {
	// Initial is the delay before the first retry.
	Initial time.Duration

	// Max caps the computed delay. Retry-After values are used as sent.
	Max time.Duration

	// Factor multiplies the delay after each retry.
	Factor float64
}

// DefaultBackoff is 1s doubling up to 30s.
var DefaultBackoff = Backoff{
	Initial: 1 * time.Second,
	Max:     30 * time.Second,
	Factor:  2.0,
}

// Next returns the delay that follows cur: min(cur*Factor, Max).
func (b Backoff) Next(cur time.Duration) time.Duration {
	next := time.Duration(float64(cur) * b.Factor)
	if next > b.Max || next < 0 {
		return b.Max
	}
	return next
}

// attemptState is the retry loop's state: which attempt is in flight, how
// many are allowed in total, and the delay to use for the next retry.
type attemptState struct {
	attempt int
	max     int
	delay   time.Duration
	policy  Backoff
}

func newAttemptState(retries int, policy Backoff) *attemptState {
	if retries < 0 {
		retries = 0
	}
	return &attemptState{
		max:    retries + 1,
		delay:  policy.Initial,
		policy: policy,
	}
}

// more reports whether another attempt may be started.
func (s *attemptState) more() bool {
	return s.attempt < s.max
}

// canRetry reports whether the current attempt has a successor.
func (s *attemptState) canRetry() bool {
	return s.attempt < s.max-1
}

// advance moves to the next attempt and doubles the backoff.
func (s *attemptState) advance() {
	s.attempt++
	s.delay = s.policy.Next(s.delay)
}

// sent is the number of attempts started so far, counting the current one.
func (s *attemptState) sent() int {
	return s.attempt + 1
}

// retryAfter parses the Retry-After header as a number of seconds. Only the
// delta-seconds form is honoured, fractional values included; HTTP dates,
// NaN and infinities are ignored. Negative values clamp to zero.
func retryAfter(h http.Header) (time.Duration, bool) {
	raw := strings.TrimSpace(h.Get("Retry-After"))
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, false
	}
	if secs < 0 {
		secs = 0
	}
	return time.Duration(secs * float64(time.Second)), true
}

// Sleeper blocks for d or until ctx is done, whichever comes first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleepFunc adapts a function to Sleeper.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep implements Sleeper.
func (f SleepFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// ContextSleeper sleeps on a timer and returns ctx.Err() early when the
// context is cancelled.
type ContextSleeper struct{}

// Sleep implements Sleeper.
func (ContextSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
