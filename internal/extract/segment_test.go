package extract

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/lexcore/internal/model"
)

func TestSegment_Basic(t *testing.T) {
	text := "The appellant was arrested on 3 May. He applied for bail!\n\nWas the detention lawful? The court said no."

	got := Segment(text)
	want := []model.Sentence{
		{Text: "The appellant was arrested on 3 May.", Paragraph: 0, Index: 0},
		{Text: "He applied for bail!", Paragraph: 0, Index: 1},
		{Text: "Was the detention lawful?", Paragraph: 1, Index: 0},
		{Text: "The court said no.", Paragraph: 1, Index: 1},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Segment() mismatch (-want +got):\n%s", diff)
	}
}

func TestSegment_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\n", "\t\r\n"} {
		got := Segment(text)
		if got == nil {
			t.Errorf("Segment(%q) returned nil, want empty slice", text)
		}
		if len(got) != 0 {
			t.Errorf("Segment(%q) returned %d sentences, want 0", text, len(got))
		}
	}
}

func TestSegment_Cases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "trailing remainder without punctuation",
			text: "First sentence. Second without stop",
			want: []string{"First sentence.", "Second without stop"},
		},
		{
			name: "punctuation not followed by whitespace does not split",
			text: "Section 167(2) applies.See also s.437. Bail granted.",
			want: []string{"Section 167(2) applies.See also s.437.", "Bail granted."},
		},
		{
			name: "abbreviations are not special-cased",
			text: "Mr. Rao appeared for the State.",
			want: []string{"Mr.", "Rao appeared for the State."},
		},
		{
			name: "single newline stays inside paragraph",
			text: "The petition was filed\non time. It was admitted.",
			want: []string{"The petition was filed\non time.", "It was admitted."},
		},
		{
			name: "single newline after stop splits",
			text: "The petition was filed.\nIt was admitted.",
			want: []string{"The petition was filed.", "It was admitted."},
		},
		{
			name: "crlf paragraph breaks",
			text: "Facts are set out.\r\n\r\nIssues follow.",
			want: []string{"Facts are set out.", "Issues follow."},
		},
		{
			name: "repeated terminal punctuation",
			text: "Really?! Yes... Indeed.",
			want: []string{"Really?!", "Yes...", "Indeed."},
		},
		{
			name: "unicode text",
			text: "न्यायालय ने आदेश दिया। The order was stayed. अंतिम वाक्य",
			want: []string{"न्यायालय ने आदेश दिया। The order was stayed.", "अंतिम वाक्य"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(Segment(tt.text))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Segment(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestSegment_ParagraphIndices(t *testing.T) {
	text := "\n\nOne. Two.\n\n\n\n   \n\nThree.\n\nFour. Five. Six."

	got := Segment(text)
	type pos struct{ p, i int }
	want := []pos{{0, 0}, {0, 1}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}

	if len(got) != len(want) {
		t.Fatalf("expected %d sentences, got %d", len(want), len(got))
	}
	for k, s := range got {
		if s.Paragraph != want[k].p || s.Index != want[k].i {
			t.Errorf("sentence %d (%q): got (%d,%d), want (%d,%d)", k, s.Text, s.Paragraph, s.Index, want[k].p, want[k].i)
		}
	}
}

func TestSegment_ConservesText(t *testing.T) {
	inputs := []string{
		"A short one.",
		"The plaintiff sued.  The defendant   denied!\n\nIssues were framed? Yes.\n\n\nEvidence was led",
		"  leading and trailing whitespace.   \n\n  ",
		"No terminal punctuation at all",
		"Dots.in.the.middle. And ellipses... and more",
	}

	for _, text := range inputs {
		joined := strings.Join(texts(Segment(text)), " ")
		if got, want := strings.Fields(joined), strings.Fields(text); !cmp.Equal(got, want) {
			t.Errorf("text not conserved for %q:\n got  %q\n want %q", text, got, want)
		}
	}
}

func TestSentences_Restartable(t *testing.T) {
	seq := Sentences("One. Two. Three.")

	var first, second []string
	for s := range seq {
		first = append(first, s.Text)
	}
	for s := range seq {
		second = append(second, s.Text)
	}

	if !cmp.Equal(first, second) {
		t.Errorf("second iteration differs: %v vs %v", first, second)
	}
	if len(first) != 3 {
		t.Errorf("expected 3 sentences, got %d", len(first))
	}
}

func TestSentences_EarlyBreak(t *testing.T) {
	count := 0
	for range Sentences("One. Two. Three. Four.") {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("expected to stop after 2, got %d", count)
	}
}

func texts(sentences []model.Sentence) []string {
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}
