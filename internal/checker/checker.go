package checker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/shinji-kodama/handlecheck/internal/model"
)

// DefaultRetries is the number of retries after the first attempt.
const DefaultRetries = 2

// Checker classifies a single handle, retrying rate limits and transport
// failures.
type Checker struct {
	transport Transport
	retries   int
	backoff   Backoff
	sleeper   Sleeper
	logger    *zap.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithRetries sets how many retries follow the first attempt. Negative
// values are treated as zero.
func WithRetries(n int) Option {
	return func(c *Checker) {
		if n < 0 {
			n = 0
		}
		c.retries = n
	}
}

// WithBackoff overrides DefaultBackoff.
func WithBackoff(b Backoff) Option {
	return func(c *Checker) { c.backoff = b }
}

// WithSleeper overrides the ContextSleeper used between attempts.
func WithSleeper(s Sleeper) Option {
	return func(c *Checker) { c.sleeper = s }
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// New creates a Checker around t.
func New(t Transport, opts ...Option) *Checker {
	c := &Checker{
		transport: t,
		retries:   DefaultRetries,
		backoff:   DefaultBackoff,
		sleeper:   ContextSleeper{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check validates handle and asks the API about it, making at most
// retries+1 requests.
//
// Outcomes:
//   - not 4 digits                 → status 0, "invalid (must be 4 digits)", no request
//   - transport returned no error  → the returned status, "ok"
//   - HTTP 409                     → 409, "taken"
//   - HTTP 200/201/202/204 as error → status, "available?"
//   - HTTP 429, attempts left      → wait Retry-After or backoff, retry
//   - any other HTTP error         → status, "http error"
//   - transport failure            → retry with backoff, then -1, "network error"
//
// A successful transport call is terminal whatever its status: only error
// responses reach the 409/2xx/429 branches. If ctx is cancelled the result
// carries NoteCancelled and the caller should stop.
func (c *Checker) Check(ctx context.Context, handle string) model.CheckResult {
	if err := model.ValidateHandle(handle); err != nil {
		return model.CheckResult{Handle: handle, Status: model.StatusInvalid, Note: model.NoteInvalid}
	}

	log := c.logger.With(zap.String("handle", handle))
	state := newAttemptState(c.retries, c.backoff)

	for ; state.more(); state.advance() {
		result := func(status int, note string) model.CheckResult {
			return model.CheckResult{Handle: handle, Status: status, Note: note, Attempts: state.sent()}
		}

		status, err := c.transport.Post(ctx, handle)
		if err == nil {
			return result(status, model.NoteOK)
		}
		if ctx.Err() != nil {
			return result(model.StatusNetworkError, model.NoteCancelled)
		}

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			switch {
			case httpErr.Status == 409:
				return result(httpErr.Status, model.NoteTaken)
			case model.IsAvailableStatus(httpErr.Status):
				return result(httpErr.Status, model.NoteAvailable)
			case httpErr.Status == 429 && state.canRetry():
				wait := state.delay
				if ra, ok := retryAfter(httpErr.Header); ok {
					wait = ra
				}
				log.Debug("rate limited, retrying",
					zap.Int("attempt", state.sent()),
					zap.Duration("wait", wait))
				if err := c.sleeper.Sleep(ctx, wait); err != nil {
					return result(model.StatusNetworkError, model.NoteCancelled)
				}
				continue
			default:
				return result(httpErr.Status, model.NoteHTTPError)
			}
		}

		if !state.canRetry() {
			log.Warn("network error, giving up", zap.Int("attempts", state.sent()), zap.Error(err))
			return result(model.StatusNetworkError, model.NoteNetworkError)
		}
		log.Debug("network error, retrying",
			zap.Int("attempt", state.sent()),
			zap.Duration("wait", state.delay),
			zap.Error(err))
		if err := c.sleeper.Sleep(ctx, state.delay); err != nil {
			return result(model.StatusNetworkError, model.NoteCancelled)
		}
	}

	return model.CheckResult{Handle: handle, Status: model.StatusNetworkError, Note: model.NoteUnexpected, Attempts: state.attempt}
}
