// Package cli — check.go implements the availability check run by the root
// command.
//
// Orchestration steps:
//  1. Resolve options (defaults, --config file, explicit flags)
//  2. Load .env and resolve the credential (exit 2 when absent)
//  3. Build the target list (suggestions, range, explicit handles)
//  4. Check every target sequentially and print verdicts
//  5. Print the summary (text or JSON)
package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/handlecheck/internal/auth"
	"github.com/shinji-kodama/handlecheck/internal/candidate"
	"github.com/shinji-kodama/handlecheck/internal/checker"
	"github.com/shinji-kodama/handlecheck/internal/config"
	"github.com/shinji-kodama/handlecheck/internal/logging"
	"github.com/shinji-kodama/handlecheck/internal/model"
	"github.com/shinji-kodama/handlecheck/internal/runner"
	"github.com/shinji-kodama/handlecheck/internal/target"
)

// User-facing messages for the conditions that abort a run with exit 2.
const (
	msgMissingAuth = "Missing auth. Set AI_COM_TOKEN or AI_COM_COOKIE."
	msgBadRange    = "Range must be within 0..9999"
	msgNoHandles   = "No handles provided. Example: handlecheck 1337 2020 4321"
)

// checkFlags holds the flag values for the check run.
// These are bound to cobra flags in register.
type checkFlags struct {
	opts       config.Options
	configPath string // --config: YAML or JSONC defaults file
	envFile    string // --env-file: dotenv file with AI_COM_* variables
	noColor    bool   // --no-color: plain verdicts
}

func newCheckFlags() *checkFlags {
	return &checkFlags{opts: config.Default()}
}

// register binds the check flags to cmd.
func (f *checkFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntSliceVar(&f.opts.Range, "range", nil, "Inclusive range START END, e.g. --range 1000 1999")
	fs.IntVar(&f.opts.DelayMS, "delay-ms", config.DefaultDelayMS, "Delay between requests in milliseconds")
	fs.IntVar(&f.opts.JitterMS, "jitter-ms", config.DefaultJitterMS, "Random jitter added to the delay in milliseconds")
	fs.Float64Var(&f.opts.TimeoutS, "timeout-s", config.DefaultTimeoutS, "Per-request timeout in seconds")
	fs.IntVar(&f.opts.Retries, "retries", config.DefaultRetries, "Retries for HTTP 429 and network failures")
	fs.StringVar(&f.opts.Suggest, "suggest", "", "Generate candidate handles: pretty")
	fs.IntVar(&f.opts.Top, "top", config.DefaultTop, "When using --suggest, limit the number of candidates")
	fs.StringVar(&f.opts.Endpoint, "endpoint", checker.DefaultEndpoint, "API endpoint")
	_ = fs.MarkHidden("endpoint")

	fs.StringVar(&f.configPath, "config", "", "Config file with default options (.yaml, .yml, .json, .jsonc)")
	fs.StringVar(&f.envFile, "env-file", "", "Dotenv file to load credentials from (default: ./.env if present)")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable coloured verdicts")
}

// resolveOptions merges the config file under the explicit flags.
func resolveOptions(cmd *cobra.Command, args []string, f *checkFlags) (config.Options, error) {
	opts := f.opts
	opts.Handles = append([]string(nil), args...)

	if f.configPath != "" {
		file, err := config.LoadFile(f.configPath)
		if err != nil {
			return opts, model.WrapCLIError(model.ExitGeneralError, "failed to load config", err)
		}
		opts.Apply(file, cmd.Flags().Changed)
	}

	if err := opts.Normalize(); err != nil {
		return opts, model.WrapCLIError(model.ExitUsage, "invalid options", err)
	}
	return opts, nil
}

// buildTargets merges suggestions, the range and explicit handles.
func buildTargets(opts config.Options) ([]string, error) {
	suggested := candidate.Generate(candidate.Source(opts.Suggest), opts.Top)

	var ranged []string
	if opts.HasRange() {
		var err error
		ranged, err = target.ExpandRange(opts.Range[0], opts.Range[1])
		if err != nil {
			return nil, err
		}
	}

	targets := target.Build(suggested, ranged, opts.Handles)
	if len(targets) == 0 {
		return nil, model.ErrNoTargets
	}
	return targets, nil
}

// runCheck is the main logic function of the root command.
func runCheck(cmd *cobra.Command, args []string, f *checkFlags, d deps) error {
	ctx := cmd.Context()

	// Step 1: Resolve options.
	opts, err := resolveOptions(cmd, args, f)
	if err != nil {
		return err
	}

	runID := logging.NewRunID()
	logger := logging.WithRun(logging.New(verbose, cmd.ErrOrStderr()), runID)
	defer func() { _ = logger.Sync() }()

	// Step 2: Credential. No request is made without one.
	if err := d.loadEnvFile(f.envFile, f.envFile != ""); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to load env file", err)
	}
	cred, ok := auth.Resolve(d.lookupEnv)
	if !ok {
		return model.NewCLIError(model.ExitUsage, msgMissingAuth)
	}
	logger.Debug("credential resolved", zap.String("source", cred.Source))

	// Step 3: Targets.
	targets, err := buildTargets(opts)
	switch {
	case errors.Is(err, model.ErrRangeOutOfBounds):
		return model.NewCLIError(model.ExitUsage, msgBadRange)
	case errors.Is(err, model.ErrNoTargets):
		return model.NewCLIError(model.ExitUsage, msgNoHandles)
	case err != nil:
		return model.WrapCLIError(model.ExitGeneralError, "failed to build target list", err)
	}
	logger.Debug("targets built", zap.Int("count", len(targets)))

	// Step 4: Check sequentially.
	transport := checker.NewRestyTransport(checker.TransportConfig{
		Endpoint:   opts.Endpoint,
		Timeout:    opts.Timeout(),
		Credential: cred,
		Logger:     logger,
	})
	defer transport.Close()

	chk := checker.New(transport,
		checker.WithRetries(opts.Retries),
		checker.WithSleeper(d.sleeper),
		checker.WithLogger(logger),
	)
	pacer := runner.Pacer{
		DelayMS:  opts.DelayMS,
		JitterMS: opts.JitterMS,
		IntN:     d.intN,
		Sleeper:  d.sleeper,
	}

	var reporter runner.Reporter
	if IsJSONOutput() {
		reporter = runner.NewJSONReporter(cmd.OutOrStdout(), runID)
	} else {
		reporter = runner.NewTextReporter(cmd.OutOrStdout(), !f.noColor)
	}

	// Step 5: Run; the reporter prints the summary when the loop finishes.
	if _, err := runner.New(chk, pacer, reporter, logger).Run(ctx, targets); err != nil {
		if ctx.Err() != nil {
			return model.WrapCLIError(model.ExitInterrupted, "interrupted", ctx.Err())
		}
		return model.WrapCLIError(model.ExitGeneralError, "run failed", err)
	}
	return nil
}

// normalizeArgs rewrites the two-value form "--range START END" into
// "--range=START,END", which pflag's int slice flag understands. Other
// forms ("--range=1,2", "--range 1,2") pass through unchanged, and nothing
// after a "--" terminator is touched.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return append(out, args[i:]...)
		}
		if a == "--range" && i+2 < len(args) && isInt(args[i+1]) && isInt(args[i+2]) {
			out = append(out, "--range="+args[i+1]+","+args[i+2])
			i += 2
			continue
		}
		out = append(out, a)
	}
	return out
}

func isInt(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil
}
