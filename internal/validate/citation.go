package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/lexcore/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var citationsChecked = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "lexcore_citations_checked_total",
	Help: "Citation candidates checked, by format verdict",
}, []string{"valid"})

// Pattern identifiers reported in model.Citation.Pattern
const (
	PatternSCC       = "scc"
	PatternSCR       = "scr"
	PatternSCCOnline = "scc-online"
	PatternAIR       = "air"
	PatternReporter  = "reporter"
)

// compiledPattern is one known citation shape
type compiledPattern struct {
	id      string
	pattern *regexp.Regexp
}

// citationPatterns are tried in order; the first match is reported.
// Candidates are whitespace-normalized before matching.
var citationPatterns = []compiledPattern{
	// (1973) 4 SCC 225, also (1973)4 SCC225
	{PatternSCC, regexp.MustCompile(`(?i)^\(\d{4}\) ?\d+ ?SCC ?\d+$`)},
	// (2001) 2 SCR 1136, [1950] SCR 88
	{PatternSCR, regexp.MustCompile(`(?i)^[(\[]\d{4}[)\]] (?:\d+ )?SCR \d+$`)},
	// 2021 SCC OnLine SC 1234, 2019 SCC OnLine Del 8494
	{PatternSCCOnline, regexp.MustCompile(`(?i)^\d{4} SCC OnLine [A-Z][A-Z&]* \d+$`)},
	// AIR 1967 SC 1643, AIR 1950 Bom 123
	{PatternAIR, regexp.MustCompile(`(?i)^AIR \d{4} [A-Z&]{1,6} \d+$`)},
	// (2005) 1 SCALE 123 and other volume-numbered reporters
	{PatternReporter, regexp.MustCompile(`(?i)^\(\d{4}\) \d+ [A-Z&]{2,} \d+$`)},
}

var (
	primarySeparator   = regexp.MustCompile(`[;\n]+`)
	secondarySeparator = regexp.MustCompile(`,+`)
)

// CitationValidator checks citation strings against known Indian law-report
// formats. It never looks citations up and never proposes corrections; an
// unmatched candidate is reported as unverifiable, not as wrong.
type CitationValidator struct {
	patterns []compiledPattern
}

// NewCitationValidator creates a validator over the built-in format table
func NewCitationValidator() *CitationValidator {
	return &CitationValidator{patterns: citationPatterns}
}

// Validate splits input into candidates and checks each one.
// Empty input yields an empty slice.
func (v *CitationValidator) Validate(input string) []model.Citation {
	return v.ValidateList(SplitCitations(input))
}

// ValidateList checks already-split candidates, normalizing each one and
// skipping blanks
func (v *CitationValidator) ValidateList(candidates []string) []model.Citation {
	results := make([]model.Citation, 0, len(candidates))
	for _, candidate := range candidates {
		normalized := normalizeCitation(candidate)
		if normalized == "" {
			continue
		}
		results = append(results, v.check(normalized))
	}
	return results
}

// PatternIDs returns the identifiers of the known formats, in match order
func (v *CitationValidator) PatternIDs() []string {
	ids := make([]string, len(v.patterns))
	for i, p := range v.patterns {
		ids[i] = p.id
	}
	return ids
}

func (v *CitationValidator) check(citation string) model.Citation {
	result := model.Citation{
		Citation: citation,
		Message:  model.CitationUnrecognized,
	}

	for _, p := range v.patterns {
		if p.pattern.MatchString(citation) {
			id := p.id
			result.Valid = true
			result.Pattern = &id
			result.Message = model.CitationKnownFormat
			break
		}
	}

	citationsChecked.WithLabelValues(strconv.FormatBool(result.Valid)).Inc()
	return result
}

// SplitCitations splits a delimited citation string into normalized candidates.
// Semicolons and newlines separate citations; commas are used only when
// neither appears in the input.
func SplitCitations(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}

	s := strings.ReplaceAll(input, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	separator := primarySeparator
	if !strings.ContainsAny(s, ";\n") {
		separator = secondarySeparator
	}

	candidates := make([]string, 0)
	for _, part := range separator.Split(s, -1) {
		if normalized := normalizeCitation(part); normalized != "" {
			candidates = append(candidates, normalized)
		}
	}
	return candidates
}

// normalizeCitation trims and collapses internal whitespace runs
func normalizeCitation(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
