// Package checker asks the ai.com API whether a single handle is free.
//
// The package has two layers:
//
//   - Transport sends one POST {"botname": "<handle>"} and reports either an
//     HTTP status (success) or an error. RestyTransport is the production
//     implementation on top of go-resty. It follows the convention that a
//     status >= 400 is an *HTTPError rather than a normal response, and the
//     checker's branching relies on that split.
//   - Checker wraps a Transport in a bounded retry state machine: HTTP 429
//     and transport failures are retried with exponential backoff
//     (1s, 2s, 4s, ... capped at 30s, no jitter), honouring Retry-After on
//     429. Every other outcome is terminal and turned into a
//     model.CheckResult.
//
// Sleeping is done through the Sleeper interface so tests can record
// delays instead of waiting for them.
package checker
