package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/lexcore/internal/model"
)

// NoCertifiedDeadline is shown in place of a deadline for Abstain records
const NoCertifiedDeadline = "no certified deadline"

const footer = "_Generated by lexcore. Summary sentences are verbatim extracts of the source. " +
	"Citations are format-checked only and never corrected. " +
	"Medium-Augmented timelines come from an external collaborator; verify them against the cited provision._"

// Renderer renders reports as JSON or Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", orDefault(report.Subject, "Untitled document"))
	if report.Source != "" {
		fmt.Fprintf(&b, "_Source: %s_  \n", report.Source)
	}
	fmt.Fprintf(&b, "_Analyzed: %s · %d sentences · window %d_\n\n",
		report.AnalyzedAt.Format("2006-01-02 15:04 MST"), report.SentenceCount, report.Window)

	b.WriteString("## Summary\n\n")
	if report.Summary.IsEmpty() {
		b.WriteString("_No sentences to allocate._\n\n")
	} else {
		for _, section := range report.Summary.Sections {
			fmt.Fprintf(&b, "### %s\n\n", section.Label.Title())
			if len(section.Sentences) == 0 {
				b.WriteString("_None._\n\n")
				continue
			}
			for _, s := range section.Sentences {
				fmt.Fprintf(&b, "> %s\n", s.Text)
			}
			b.WriteString("\n")
		}
	}

	if len(report.Citations) > 0 {
		fmt.Fprintf(&b, "## Citations (%d/%d in a known format)\n\n", report.CountValid(), len(report.Citations))
		writeCitationTable(&b, report.Citations)
		b.WriteString("\n")
	}

	if report.Procedure != nil {
		b.WriteString("## Procedure\n\n")
		writeProcedure(&b, report.Procedure)
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString(footer)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderCitations writes a citation check result as a Markdown table
func (r *Renderer) RenderCitations(w io.Writer, citations []model.Citation) error {
	var b strings.Builder
	if len(citations) == 0 {
		b.WriteString("_No citations found in input._\n")
	} else {
		writeCitationTable(&b, citations)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderProcedure writes a procedural record as a Markdown list
func (r *Renderer) RenderProcedure(w io.Writer, record *model.ProceduralRecord) error {
	var b strings.Builder
	writeProcedure(&b, record)
	if r.includeFooter && record.Confidence != model.ConfidenceHigh {
		b.WriteString("\n---\n")
		b.WriteString(footer)
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderSummary prints a short terminal summary of a report
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "\n%s\n", orDefault(report.Subject, "Untitled document"))
	fmt.Fprintf(w, "  Sentences: %d\n", report.SentenceCount)
	for _, section := range report.Summary.Sections {
		fmt.Fprintf(w, "  %-11s %d\n", section.Label.Title()+":", len(section.Sentences))
	}
	if len(report.Citations) > 0 {
		fmt.Fprintf(w, "  Citations: %d/%d in a known format\n", report.CountValid(), len(report.Citations))
	}
	if report.Procedure != nil {
		fmt.Fprintf(w, "  Next step: %s (%s)\n", orDefault(report.Procedure.NextStep, "unknown"), FormatDeadline(report.Procedure))
	}
}

// WriteJSON renders the report as JSON to a file
func (r *Renderer) WriteJSON(report *model.Report, path string) error {
	var buf bytes.Buffer
	if err := r.RenderJSON(&buf, report); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteMarkdown renders the report as Markdown to a file
func (r *Renderer) WriteMarkdown(report *model.Report, path string) error {
	var buf bytes.Buffer
	if err := r.RenderMarkdown(&buf, report); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// FormatDeadline describes a record's timeline. Abstain records never show a number.
func FormatDeadline(record *model.ProceduralRecord) string {
	if record == nil || !record.Confidence.IsAuthoritative() {
		return NoCertifiedDeadline
	}
	deadline := fmt.Sprintf("%d days", record.TimelineDays)
	if record.MaxExtensionDays > 0 {
		deadline += fmt.Sprintf(" (extendable by up to %d days)", record.MaxExtensionDays)
	}
	return deadline
}

func writeCitationTable(b *strings.Builder, citations []model.Citation) {
	b.WriteString("| Citation | Valid | Pattern | Note |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, c := range citations {
		valid := "no"
		if c.Valid {
			valid = "yes"
		}
		pattern := "-"
		if c.Pattern != nil {
			pattern = *c.Pattern
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", escapeCell(c.Citation), valid, pattern, escapeCell(c.Message))
	}
}

func writeProcedure(b *strings.Builder, p *model.ProceduralRecord) {
	if p.LawCode != "" {
		fmt.Fprintf(b, "- **Law code:** %s\n", p.LawCode)
	}
	fmt.Fprintf(b, "- **Current stage:** %s\n", orDefault(p.CurrentStage, "unknown"))
	fmt.Fprintf(b, "- **Next step:** %s\n", orDefault(p.NextStep, "unknown"))
	fmt.Fprintf(b, "- **Deadline:** %s\n", FormatDeadline(p))
	fmt.Fprintf(b, "- **Statutory reference:** %s\n", orDefault(p.StatutoryReference, "none"))
	fmt.Fprintf(b, "- **Confidence:** %s\n", p.Confidence)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
