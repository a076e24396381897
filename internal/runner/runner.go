package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shinji-kodama/handlecheck/internal/model"
)

// HandleChecker is satisfied by *checker.Checker.
type HandleChecker interface {
	Check(ctx context.Context, handle string) model.CheckResult
}

// Runner walks a target list sequentially.
type Runner struct {
	checker  HandleChecker
	pacer    Pacer
	reporter Reporter
	logger   *zap.Logger
}

// New creates a Runner. A nil logger is replaced with a no-op logger.
func New(c HandleChecker, p Pacer, r Reporter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{checker: c, pacer: p, reporter: r, logger: logger}
}

// Run checks every target in order and returns the summary.
//
// Each handle produces exactly one reported verdict. Between two handles
// (never after the last one) the pacer pauses. If ctx is cancelled the
// loop stops, the handle in flight is not reported, the summary gathered
// so far is returned together with ctx.Err(), and Finish is not called.
func (r *Runner) Run(ctx context.Context, targets []string) (model.Summary, error) {
	summary := model.NewSummary()
	total := len(targets)

	for i, h := range targets {
		res := r.checker.Check(ctx, h)
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		v := summary.Add(res)
		if err := r.reporter.Result(i+1, total, res, v); err != nil {
			return summary, fmt.Errorf("failed to report %s: %w", h, err)
		}
		r.logger.Debug("checked",
			zap.String("handle", h),
			zap.Int("status", res.Status),
			zap.String("verdict", v.String()),
			zap.Int("attempts", res.Attempts))

		if i == total-1 {
			break
		}
		d, err := r.pacer.Wait(ctx)
		if err != nil {
			return summary, err
		}
		r.logger.Debug("paced", zap.Duration("pause", d))
	}

	if err := r.reporter.Finish(summary); err != nil {
		return summary, err
	}
	return summary, nil
}
