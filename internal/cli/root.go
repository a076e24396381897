// Package cli implements the cobra-based command line of handlecheck.
//
// The root command itself performs the availability check (handlecheck
// [handles...]); the suggest subcommand lists generated candidates without
// contacting the API. This file defines the root command, the global flags
// and the mapping from returned errors to process exit codes.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/handlecheck/internal/auth"
	"github.com/shinji-kodama/handlecheck/internal/checker"
	"github.com/shinji-kodama/handlecheck/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput switches stdout to a single JSON document per command.
	jsonOutput bool

	// verbose lowers the log level to debug.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// deps are the process-wide collaborators of a run. Production code uses
// defaultDeps; tests replace individual fields.
type deps struct {
	// lookupEnv resolves environment variables (os.LookupEnv).
	lookupEnv auth.LookupFunc

	// loadEnvFile loads a dotenv file into the process environment.
	loadEnvFile func(path string, explicit bool) error

	// sleeper is used for both retry backoff and pacing.
	sleeper checker.Sleeper

	// intN is the jitter source; nil selects math/rand/v2.
	intN func(n int) int
}

func defaultDeps() deps {
	return deps{
		lookupEnv:   os.LookupEnv,
		loadEnvFile: auth.LoadEnvFile,
		sleeper:     checker.ContextSleeper{},
	}
}

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultDeps())
}

func newRootCommand(d deps) *cobra.Command {
	flags := newCheckFlags()

	rootCmd := &cobra.Command{
		Use:   "handlecheck [handles...]",
		Short: "Check availability of 4-digit ai.com handles",
		Long: `handlecheck asks the ai.com API whether 4-digit bot handles are still free.

Handles are checked one at a time with a randomized pause between requests.
Rate limits (HTTP 429) and network failures are retried with exponential
backoff. Authentication is taken from AI_COM_COOKIE (a raw Cookie header) or
AI_COM_TOKEN (sent as token=<value>); a .env file in the working directory is
loaded first if present.

Examples:
  handlecheck 1337 2020 4321
  handlecheck --range 1000 1999 --delay-ms 350
  handlecheck --suggest pretty --top 50
  handlecheck --config handlecheck.yaml --json`,

		// Handles are free-form: malformed ones are reported as INVALID
		// rather than rejected up front.
		Args: cobra.ArbitraryArgs,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors lets Execute format errors (text or JSON).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags, d)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	flags.register(rootCmd)

	// Flag parse errors are usage errors, like a missing credential.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return model.WrapCLIError(model.ExitUsage, "invalid arguments", err)
	})

	rootCmd.AddCommand(NewSuggestCommand())

	return rootCmd
}

// Execute runs the root command with os.Args and exits the process with
// the resulting code. SIGINT and SIGTERM cancel the run.
func Execute(rootCmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, rootCmd, os.Args[1:])
	stop()
	os.Exit(int(code))
}

// run executes rootCmd with args and returns the exit code, printing any
// error to the command's stderr.
func run(ctx context.Context, rootCmd *cobra.Command, args []string) model.ExitCode {
	rootCmd.SetArgs(normalizeArgs(args))
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return model.ExitSuccess
	}

	code := model.ExitCodeOf(err)
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(rootCmd.ErrOrStderr(), cliErr.Message, cliErr.Err)
	} else {
		printError(rootCmd.ErrOrStderr(), err.Error(), nil)
	}
	return code
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// stdout is reserved for the report, so errors go to stderr even
		// in JSON mode.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
