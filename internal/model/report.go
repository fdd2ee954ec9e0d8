package model

import "time"

// Report is the rendered result of one analysis run.
// Procedure is nil unless a procedural query was supplied.
type Report struct {
	RunID      string    `json:"run_id"`           // Correlates log lines for this run
	Subject    string    `json:"subject"`          // File name, URL subject or "stdin"
	Source     string    `json:"source,omitempty"` // Where the text came from
	AnalyzedAt time.Time `json:"analyzed_at"`      // When the analysis ran
	Window     int       `json:"window"`           // Sentences per summary section

	SentenceCount int        `json:"sentence_count"`      // Sentences produced by the segmenter
	Summary       Summary    `json:"summary"`             // Five fixed sections
	Citations     []Citation `json:"citations,omitempty"` // Citation format checks

	Procedure *ProceduralRecord `json:"procedure,omitempty"` // Optional timeline resolution
	Fetch     *FetchMeta        `json:"fetch,omitempty"`     // HTTP metadata when the source was a URL

	Principles Principles `json:"principles"` // Guarantees that applied to this report
}

// FetchMeta records how a URL source was retrieved
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Adapter      string            `json:"adapter,omitempty"` // Content adapter that produced the text
	Headers      map[string]string `json:"headers,omitempty"`
}

// Principles documents which core guarantees were applied
type Principles struct {
	LiteralExtracts bool `json:"literal_extracts"` // Summary sentences are verbatim source spans
	NoCorrections   bool `json:"no_corrections"`   // Citations are never rewritten
	CiteOrAbstain   bool `json:"cite_or_abstain"`  // Timelines carry a statute or are withheld
}

// DefaultPrinciples returns the standard lexcore principles
func DefaultPrinciples() Principles {
	return Principles{
		LiteralExtracts: true,
		NoCorrections:   true,
		CiteOrAbstain:   true,
	}
}

// CountValid returns how many citations matched a known format
func (r *Report) CountValid() int {
	count := 0
	for _, c := range r.Citations {
		if c.Valid {
			count++
		}
	}
	return count
}
