package model

import (
	"bytes"
	"encoding/json"
)

// SummarySection holds the sentences allocated to one label
type SummarySection struct {
	Label     SectionLabel `json:"label"`
	Sentences []Sentence   `json:"sentences"`
}

// Texts returns the literal sentence strings of the section
func (s SummarySection) Texts() []string {
	texts := make([]string, len(s.Sentences))
	for i, sentence := range s.Sentences {
		texts[i] = sentence.Text
	}
	return texts
}

// Summary is the ordered five-section mapping produced by the allocator.
// It marshals to a JSON object whose keys keep allocation order and whose
// values are the literal sentence strings.
type Summary struct {
	Sections [5]SummarySection
}

// Section returns the section for the given label
func (s Summary) Section(label SectionLabel) SummarySection {
	for _, section := range s.Sections {
		if section.Label == label {
			return section
		}
	}
	return SummarySection{Label: label, Sentences: []Sentence{}}
}

// SentenceCount returns the number of sentences across all sections
func (s Summary) SentenceCount() int {
	n := 0
	for _, section := range s.Sections {
		n += len(section.Sentences)
	}
	return n
}

// IsEmpty reports whether every section is empty
func (s Summary) IsEmpty() bool {
	return s.SentenceCount() == 0
}

// MarshalJSON renders {"facts": [...], "issues": [...], ...} in label order.
// Unlabelled sections, as in the zero Summary, take the label of their slot.
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, section := range s.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		label := section.Label
		if label == "" {
			label = SectionLabels[i]
		}
		key, err := json.Marshal(string(label))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(section.Texts())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
