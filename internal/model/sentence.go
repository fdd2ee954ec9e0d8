package model

import "strings"

// Sentence is one literal span of the source text produced by the segmenter
type Sentence struct {
	Text      string `json:"text"`      // Literal sentence text, trimmed
	Paragraph int    `json:"paragraph"` // Paragraph index in source (0-based)
	Index     int    `json:"index"`     // Sentence index within the paragraph (0-based)
}

// SectionLabel names one of the five fixed summary sections
type SectionLabel string

const (
	SectionFacts      SectionLabel = "facts"
	SectionIssues     SectionLabel = "issues"
	SectionArguments  SectionLabel = "arguments"
	SectionPrecedents SectionLabel = "precedents"
	SectionReasoning  SectionLabel = "reasoning"
)

// SectionLabels lists the section labels in allocation order
var SectionLabels = [5]SectionLabel{
	SectionFacts,
	SectionIssues,
	SectionArguments,
	SectionPrecedents,
	SectionReasoning,
}

// Title returns the display heading for the label
func (l SectionLabel) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}
