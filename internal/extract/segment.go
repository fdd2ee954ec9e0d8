package extract

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/lexcore/internal/model"
)

// paragraphBreak matches runs of two or more newlines
var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Segment splits text into ordered sentences.
// Empty input yields an empty slice; the function never fails.
func Segment(text string) []model.Sentence {
	sentences := make([]model.Sentence, 0)
	for sentence := range Sentences(text) {
		sentences = append(sentences, sentence)
	}
	return sentences
}

// Sentences returns the sentences of text as a restartable sequence.
// Each iteration re-segments the same immutable input.
//
// Paragraphs are separated by two or more newlines. Within a paragraph a
// sentence ends at '.', '!' or '?' followed by whitespace. Abbreviations are
// not special-cased, so "Mr. Rao" is two sentences.
func Sentences(text string) iter.Seq[model.Sentence] {
	return func(yield func(model.Sentence) bool) {
		for p, paragraph := range splitParagraphs(text) {
			for i, sentence := range splitSentences(paragraph) {
				if !yield(model.Sentence{Text: sentence, Paragraph: p, Index: i}) {
					return
				}
			}
		}
	}
}

// splitParagraphs splits text on blank-line runs and drops empty paragraphs
func splitParagraphs(text string) []string {
	if text == "" {
		return nil
	}

	// Normalize line endings so "\r\n\r\n" counts as a paragraph break
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var paragraphs []string
	for _, part := range paragraphBreak.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

// splitSentences splits a paragraph at terminal punctuation followed by whitespace
func splitSentences(paragraph string) []string {
	var sentences []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	start := 0
	for i := 0; i < len(paragraph); {
		r, size := utf8.DecodeRuneInString(paragraph[i:])
		i += size

		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i >= len(paragraph) {
			break
		}
		next, _ := utf8.DecodeRuneInString(paragraph[i:])
		if !unicode.IsSpace(next) {
			continue
		}

		add(paragraph[start:i])

		// Consume the whitespace run
		for i < len(paragraph) {
			ws, wsSize := utf8.DecodeRuneInString(paragraph[i:])
			if !unicode.IsSpace(ws) {
				break
			}
			i += wsSize
		}
		start = i
	}

	// Trailing remainder is a final sentence
	if start < len(paragraph) {
		add(paragraph[start:])
	}

	return sentences
}
