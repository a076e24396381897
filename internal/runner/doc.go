// Package runner drives a check run: it walks the target list strictly in
// order, checks one handle at a time, reports each verdict, and pauses a
// randomized interval between requests.
//
// Nothing here runs concurrently. The only suspension points are the
// pacing pause between handles and the checker's own retry backoff, both
// of which return early when the context is cancelled.
package runner
