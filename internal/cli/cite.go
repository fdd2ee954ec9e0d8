package cli

import (
	"fmt"
	"strings"

	"github.com/ppiankov/lexcore/internal/pipeline"
	"github.com/ppiankov/lexcore/internal/skill"
	"github.com/spf13/cobra"
)

var (
	citeFile   string
	citeFormat string
)

// citeCmd represents the cite command
var citeCmd = &cobra.Command{
	Use:   "cite [citation...]",
	Short: "Check citations against known law-report formats",
	Long: `Cite checks each citation against known Indian law-report formats
(SCC, SCR, SCC OnLine, AIR and volume-numbered reporters).

A citation that matches no format is reported as unverifiable, never
corrected. Passing a format check does not mean the case exists.

Each argument is one citation. With no arguments, citations are read from
--file or stdin, separated by ';' or newlines.

Example:
  lexcore cite "(1973) 4 SCC 225" "AIR 1967 SC 1643"
  lexcore cite --file citations.txt --format json`,
	RunE: runCite,
}

func init() {
	rootCmd.AddCommand(citeCmd)

	citeCmd.Flags().StringVarP(&citeFile, "file", "f", "", "file of citations ('-' for stdin)")
	citeCmd.Flags().StringVar(&citeFormat, "format", "markdown", "output format (markdown, json)")
}

func runCite(cmd *cobra.Command, args []string) error {
	format, err := renderFormat(citeFormat)
	if err != nil {
		return err
	}

	input := strings.Join(args, "\n")
	if len(args) == 0 {
		input, err = readTextArg(cmd.InOrStdin(), citeFile)
		if err != nil {
			return err
		}
	}

	result, err := skill.NewDispatcher(nil, logger).Dispatch(cmd.Context(), skill.OpCheckCitations, skill.Input{Citations: input})
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(false)
	if format == "json" {
		return renderer.RenderJSON(cmd.OutOrStdout(), result.Citations)
	}

	valid := 0
	for _, c := range result.Citations {
		if c.Valid {
			valid++
		}
	}
	if err := renderer.RenderCitations(cmd.OutOrStdout(), result.Citations); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%d/%d citations in a known format\n", valid, len(result.Citations))
	return nil
}
