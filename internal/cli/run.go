package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/lexcore/internal/pipeline"
	"github.com/ppiankov/lexcore/internal/skill"
	"github.com/spf13/cobra"
)

var runTimeout time.Duration

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <operation> [input.json|-]",
	Short: "Run one core operation on a JSON input",
	Long: `Run dispatches a JSON request to one of the core operations and prints
the JSON result. Operations: summarize, check-citations, resolve-procedure,
fill-template.

Input fields: text, window, citations, query {case_stage, law_code},
template, vars.

Example:
  echo '{"text": "..."}' | lexcore run summarize
  lexcore run resolve-procedure request.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runOperation,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().DurationVar(&runTimeout, "timeout", time.Minute, "overall timeout")
}

func runOperation(cmd *cobra.Command, args []string) error {
	op, err := skill.ParseOperation(args[0])
	if err != nil {
		return err
	}

	inputPath := "-"
	if len(args) == 2 {
		inputPath = args[1]
	}
	raw, err := readTextArg(cmd.InOrStdin(), inputPath)
	if err != nil {
		return err
	}

	in := skill.Input{Window: cfg.Summary.Window}
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	dispatcher := skill.NewDispatcher(nil, logger)
	if op == skill.OpResolveProcedure {
		comps, err := buildComponents(ctx, cfg)
		if err != nil {
			return err
		}
		defer comps.Close()
		dispatcher = skill.NewDispatcher(comps.resolver, logger)
	}

	result, err := dispatcher.Dispatch(ctx, op, in)
	if err != nil {
		return err
	}
	return pipeline.NewRenderer(false).RenderJSON(cmd.OutOrStdout(), result)
}
