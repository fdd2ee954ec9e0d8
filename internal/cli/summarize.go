package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/lexcore/internal/model"
	"github.com/ppiankov/lexcore/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	summaryWindow    int
	summaryCitations string
	summaryCiteFile  string
	summaryStage     string
	summaryLawCode   string
	summaryFormat    string
	summaryOut       string
	summaryTimeout   time.Duration
	noFooter         bool
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [file|url|-]",
	Short: "Summarize a judgment into five sections by literal extraction",
	Long: `Summarize splits a judgment into sentences and allocates consecutive windows
of them to five fixed sections: facts, issues, arguments, precedents and
reasoning. Every summary line is a verbatim extract of the source.

Optionally checks citations and resolves the next procedural step in the
same report.

Example:
  lexcore summarize judgment.txt
  lexcore summarize judgment.html --window 3 --format json
  lexcore summarize https://example.org/judgment/123 --out report.md
  cat judgment.txt | lexcore summarize - --citations "(1973) 4 SCC 225; AIR 1967 SC 1643"
  lexcore summarize judgment.txt --stage "Summons received" --law-code CPC`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().IntVar(&summaryWindow, "window", -1, "sentences per section (default from config)")
	summarizeCmd.Flags().StringVar(&summaryCitations, "citations", "", "citations to check, separated by ';' or newlines")
	summarizeCmd.Flags().StringVar(&summaryCiteFile, "citations-file", "", "file of citations to check, one per line")
	summarizeCmd.Flags().StringVar(&summaryStage, "stage", "", "current case stage for timeline resolution")
	summarizeCmd.Flags().StringVar(&summaryLawCode, "law-code", "", "law code for timeline resolution (e.g. CPC, CrPC)")
	summarizeCmd.Flags().StringVar(&summaryFormat, "format", "markdown", "output format (markdown, json)")
	summarizeCmd.Flags().StringVarP(&summaryOut, "out", "o", "", "output path (default stdout)")
	summarizeCmd.Flags().DurationVar(&summaryTimeout, "timeout", 2*time.Minute, "overall timeout")
	summarizeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	format, err := renderFormat(summaryFormat)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), summaryTimeout)
	defer cancel()

	window := cfg.Summary.Window
	if summaryWindow >= 0 {
		window = summaryWindow
	}

	comps, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	analyzer := newAnalyzer(cfg, comps.resolver, window)

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	var req *pipeline.Request
	if source == "-" {
		text, err := readStdin(cmd.InOrStdin())
		if err != nil {
			return err
		}
		req = &pipeline.Request{Subject: "stdin", Text: text}
	} else {
		req, err = analyzer.Load(ctx, source)
		if err != nil {
			return err
		}
	}

	req.Citations = summaryCitations
	if summaryCiteFile != "" {
		data, err := os.ReadFile(summaryCiteFile)
		if err != nil {
			return fmt.Errorf("read citations: %w", err)
		}
		req.Citations = strings.Join([]string{req.Citations, string(data)}, "\n")
	}

	if summaryStage != "" || summaryLawCode != "" {
		req.Procedure = &model.ProceduralQuery{CaseStage: summaryStage, LawCode: summaryLawCode}
	}

	report, err := analyzer.Analyze(ctx, *req)
	if err != nil {
		return err
	}

	logger.Info("Summarized document",
		zap.String("run_id", report.RunID),
		zap.String("subject", report.Subject),
		zap.Int("sentences", report.SentenceCount))

	w, closeOut, err := openOutput(cmd.OutOrStdout(), summaryOut)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter && !noFooter)
	if format == "json" {
		err = renderer.RenderJSON(w, report)
	} else {
		err = renderer.RenderMarkdown(w, report)
	}
	if closeErr := closeOut(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if cfg.Output.Verbose {
		renderer.RenderSummary(cmd.ErrOrStderr(), report)
	}
	return nil
}
