package extract

import (
	"slices"

	"github.com/ppiankov/lexcore/internal/model"
)

// DefaultWindow is the number of sentences allocated to each section
const DefaultWindow = 2

// Allocate assigns five consecutive, non-overlapping windows of the sentence
// sequence to the fixed sections, in label order. A window that starts past
// the end is empty; a window that runs past the end is truncated. A window of
// zero (or less) yields five empty sections.
func Allocate(sentences []model.Sentence, window int) model.Summary {
	if window < 0 {
		window = 0
	}
	// Any window wider than the input behaves the same; clamping keeps offsets from overflowing
	if window > len(sentences) {
		window = len(sentences) + 1
	}

	var summary model.Summary
	for i, label := range model.SectionLabels {
		section := model.SummarySection{
			Label:     label,
			Sentences: []model.Sentence{},
		}

		start := i * window
		if window > 0 && start < len(sentences) {
			end := min(start+window, len(sentences))
			section.Sentences = slices.Clone(sentences[start:end])
		}

		summary.Sections[i] = section
	}

	return summary
}

// Summarize segments text and allocates the sentences into sections
func Summarize(text string, window int) model.Summary {
	return Allocate(Segment(text), window)
}
