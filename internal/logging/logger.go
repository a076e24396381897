// Package logging builds the zap logger used for diagnostics.
//
// Diagnostics go to stderr so they never interleave with the verdict lines
// and summary printed on stdout. By default only warnings and errors are
// shown; --verbose enables debug output (request retries, pacing delays,
// credential source).
package logging

import (
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console-encoded logger writing to w (stderr when nil).
func New(verbose bool, w io.Writer) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}

	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}

// NewRunID returns a fresh identifier for one invocation. It is attached
// to every log line and to JSON output so runs can be told apart.
func NewRunID() string {
	return uuid.NewString()
}

// WithRun returns a child logger tagged with the run ID.
func WithRun(l *zap.Logger, runID string) *zap.Logger {
	return l.With(zap.String("run", runID))
}
