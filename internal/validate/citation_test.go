package validate

import (
	"testing"

	"github.com/ppiankov/lexcore/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCitationValidator_KnownFormats(t *testing.T) {
	validator := NewCitationValidator()

	tests := []struct {
		citation string
		pattern  string
		desc     string
	}{
		{"AIR 1967 SC 1643", PatternAIR, "AIR Supreme Court"},
		{"AIR 1950 Bom 123", PatternAIR, "AIR High Court"},
		{"air 1967 sc 1643", PatternAIR, "AIR lower case"},
		{"(1973) 4 SCC 225", PatternSCC, "SCC"},
		{"(1973)4 SCC 225", PatternSCC, "SCC without space after year"},
		{"(2001) 2 SCR 1136", PatternSCR, "SCR with volume"},
		{"[1950] SCR 88", PatternSCR, "SCR bracketed year"},
		{"2021 SCC OnLine SC 1234", PatternSCCOnline, "SCC OnLine"},
		{"2019 SCC OnLine Del 8494", PatternSCCOnline, "SCC OnLine High Court"},
		{"(2005) 1 SCALE 123", PatternReporter, "generic reporter"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			results := validator.Validate(tt.citation)
			require.Len(t, results, 1)

			got := results[0]
			assert.True(t, got.Valid)
			require.NotNil(t, got.Pattern)
			assert.Equal(t, tt.pattern, *got.Pattern)
			assert.Nil(t, got.Corrected)
			assert.Equal(t, "matches a known format", got.Message)
		})
	}
}

func TestCitationValidator_Unrecognized(t *testing.T) {
	validator := NewCitationValidator()

	for _, citation := range []string{
		"random text",
		"AIR SC 1643",
		"1973 4 SCC 225",
		"(1973) 4 SCC",
		"Kesavananda Bharati v. State of Kerala",
		"AIR 1967 SC 1643 (para 12)",
	} {
		t.Run(citation, func(t *testing.T) {
			results := validator.Validate(citation)
			require.Len(t, results, 1)

			got := results[0]
			assert.False(t, got.Valid)
			assert.Nil(t, got.Pattern)
			assert.Nil(t, got.Corrected)
			assert.Equal(t, "unrecognized format; cannot verify", got.Message)
		})
	}
}

func TestCitationValidator_Normalization(t *testing.T) {
	validator := NewCitationValidator()

	results := validator.Validate("  AIR   1967\tSC    1643  ")
	require.Len(t, results, 1)
	assert.Equal(t, "AIR 1967 SC 1643", results[0].Citation)
	assert.True(t, results[0].Valid)

	// Characters are never reinterpreted, only whitespace collapses
	results = validator.Validate("AIR 1967 SC l643")
	require.Len(t, results, 1)
	assert.Equal(t, "AIR 1967 SC l643", results[0].Citation)
	assert.False(t, results[0].Valid)
}

func TestSplitCitations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"blank", "  \n ; ", []string{}},
		{"semicolons", "AIR 1967 SC 1643; (1973) 4 SCC 225", []string{"AIR 1967 SC 1643", "(1973) 4 SCC 225"}},
		{"newlines", "AIR 1967 SC 1643\r\n\r\n(1973) 4 SCC 225\n", []string{"AIR 1967 SC 1643", "(1973) 4 SCC 225"}},
		{"mixed runs", "a;;\n;b", []string{"a", "b"}},
		{"commas only", "AIR 1967 SC 1643, (1973) 4 SCC 225", []string{"AIR 1967 SC 1643", "(1973) 4 SCC 225"}},
		{"commas kept when semicolons present", "Kesavananda, (1973) 4 SCC 225; AIR 1967 SC 1643", []string{"Kesavananda, (1973) 4 SCC 225", "AIR 1967 SC 1643"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCitations(tt.input))
		})
	}
}

func TestCitationValidator_OneRecordPerCandidate(t *testing.T) {
	validator := NewCitationValidator()

	results := validator.Validate("AIR 1967 SC 1643; random text; (1973) 4 SCC 225")
	require.Len(t, results, 3)

	assert.Equal(t, []bool{true, false, true}, []bool{results[0].Valid, results[1].Valid, results[2].Valid})
	for _, r := range results {
		assert.Nil(t, r.Corrected)
	}
}

func TestCitationValidator_EmptyInput(t *testing.T) {
	validator := NewCitationValidator()

	results := validator.Validate("")
	assert.NotNil(t, results)
	assert.Empty(t, results)

	results = validator.ValidateList([]string{"", "   "})
	assert.Empty(t, results)
}

func TestCitationValidator_ValidateList(t *testing.T) {
	validator := NewCitationValidator()

	results := validator.ValidateList([]string{" (1973)  4 SCC 225 ", "random text"})
	require.Len(t, results, 2)
	assert.Equal(t, model.Citation{
		Citation:  "(1973) 4 SCC 225",
		Valid:     true,
		Pattern:   results[0].Pattern,
		Corrected: nil,
		Message:   model.CitationKnownFormat,
	}, results[0])
	assert.False(t, results[1].Valid)
}

func TestCitationValidator_PatternOrder(t *testing.T) {
	validator := NewCitationValidator()
	assert.Equal(t, []string{PatternSCC, PatternSCR, PatternSCCOnline, PatternAIR, PatternReporter}, validator.PatternIDs())
}

func TestCitationValidator_CountsChecks(t *testing.T) {
	validator := NewCitationValidator()

	before := testutil.ToFloat64(citationsChecked.WithLabelValues("false"))
	validator.Validate("random text; more random text")
	after := testutil.ToFloat64(citationsChecked.WithLabelValues("false"))

	assert.Equal(t, before+2, after)
}
