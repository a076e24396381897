// Package cli — suggest.go implements the "handlecheck suggest" command.
//
// The suggest command prints the generated candidate handles without
// contacting the API, so they can be reviewed (or piped into a later
// check) before spending any requests on them.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/handlecheck/internal/candidate"
	"github.com/shinji-kodama/handlecheck/internal/config"
	"github.com/shinji-kodama/handlecheck/internal/model"
)

// suggestFlags holds the flag values for the suggest command.
type suggestFlags struct {
	source string
	top    int
}

// NewSuggestCommand creates the "suggest" cobra command.
func NewSuggestCommand() *cobra.Command {
	flags := &suggestFlags{}

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "List generated candidate handles without checking them",
		Long: `List the candidate handles that --suggest would add to a check run.

Examples:
  handlecheck suggest
  handlecheck suggest --top 20
  handlecheck suggest --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.source, "source", string(candidate.SourcePretty), "Candidate generator: pretty")
	cmd.Flags().IntVar(&flags.top, "top", config.DefaultTop, "Maximum number of candidates")

	return cmd
}

// runSuggest prints the candidates one per line, or as a JSON object with
// a "candidates" array when --json is set.
func runSuggest(w io.Writer, flags *suggestFlags) error {
	src, err := candidate.ParseSource(flags.source)
	if err != nil || src == "" {
		return model.WrapCLIError(model.ExitUsage, "invalid --source", err)
	}

	handles := candidate.Generate(src, flags.top)

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(struct {
			Candidates []string `json:"candidates"`
		}{Candidates: append([]string{}, handles...)}, "", "  ")
		fmt.Fprintln(w, string(data))
		return nil
	}

	for _, h := range handles {
		fmt.Fprintln(w, h)
	}
	return nil
}
