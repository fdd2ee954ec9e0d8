package cli

import (
	"context"
	"time"

	"github.com/ppiankov/lexcore/internal/model"
	"github.com/ppiankov/lexcore/internal/pipeline"
	"github.com/ppiankov/lexcore/internal/skill"
	"github.com/spf13/cobra"
)

var (
	procStage   string
	procLawCode string
	procFormat  string
	procTimeout time.Duration
)

// procedureCmd represents the procedure command
var procedureCmd = &cobra.Command{
	Use:   "procedure",
	Short: "Resolve the next procedural step and its statutory timeline",
	Long: `Procedure looks up the next step after a case stage in the built-in
statutory table (plus procedural.table_path entries).

When the table has no answer and an LLM provider is configured, the query is
escalated; the collaborator must cite a statutory provision or abstain.
Abstained answers are shown as "no certified deadline".

Exit status is 2 when escalation is needed but not configured, and 3 when the
collaborator fails or breaks its answer contract.

Example:
  lexcore procedure --stage "Summons received" --law-code CPC
  lexcore procedure --stage "Award passed" --law-code "Arbitration Act" --format json`,
	Args: cobra.NoArgs,
	RunE: runProcedure,
}

func init() {
	rootCmd.AddCommand(procedureCmd)

	procedureCmd.Flags().StringVar(&procStage, "stage", "", "current case stage")
	procedureCmd.Flags().StringVar(&procLawCode, "law-code", "", "law code (e.g. CPC, CrPC)")
	procedureCmd.Flags().StringVar(&procFormat, "format", "markdown", "output format (markdown, json)")
	procedureCmd.Flags().DurationVar(&procTimeout, "timeout", time.Minute, "overall timeout")
}

func runProcedure(cmd *cobra.Command, args []string) error {
	format, err := renderFormat(procFormat)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), procTimeout)
	defer cancel()

	comps, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	result, err := skill.NewDispatcher(comps.resolver, logger).Dispatch(ctx, skill.OpResolveProcedure, skill.Input{
		Query: model.ProceduralQuery{CaseStage: procStage, LawCode: procLawCode},
	})
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if format == "json" {
		return renderer.RenderJSON(cmd.OutOrStdout(), result.Procedure)
	}
	return renderer.RenderProcedure(cmd.OutOrStdout(), result.Procedure)
}
