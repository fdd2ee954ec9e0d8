package model

import "strings"

// ProceduralQuery asks for the next step after a case stage under a law code
type ProceduralQuery struct {
	CaseStage string `json:"case_stage"`
	LawCode   string `json:"law_code"`
}

// IsBlank reports whether both fields are empty after trimming
func (q ProceduralQuery) IsBlank() bool {
	return strings.TrimSpace(q.CaseStage) == "" && strings.TrimSpace(q.LawCode) == ""
}

// Confidence classifies where a procedural answer came from
type Confidence string

const (
	ConfidenceHigh    Confidence = "High-Deterministic" // Deterministic table hit
	ConfidenceMedium  Confidence = "Medium-Augmented"   // Collaborator answer with a statutory citation
	ConfidenceAbstain Confidence = "Abstain"            // Collaborator declined to certify an answer
)

// IsAuthoritative reports whether the record may be presented as a deadline
func (c Confidence) IsAuthoritative() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium
}

// ProceduralRecord is the resolved next step and its timeline
type ProceduralRecord struct {
	LawCode            string     `json:"law_code"`
	CurrentStage       string     `json:"current_stage"`
	NextStep           string     `json:"next_procedural_step"`
	TimelineDays       int        `json:"timeline_days"`
	MaxExtensionDays   int        `json:"max_extension_days"`
	StatutoryReference string     `json:"statutory_reference"`
	Confidence         Confidence `json:"confidence"`
}

// AugmentedAnswer is the structured object an augmentation collaborator must return.
// Contract rules beyond these tags are enforced by the procedural resolver.
type AugmentedAnswer struct {
	CurrentStage       string     `json:"current_stage" validate:"max=500"`
	NextStep           string     `json:"next_procedural_step" validate:"max=1000"`
	TimelineDays       int        `json:"timeline_days" validate:"gte=0"`
	MaxExtensionDays   int        `json:"max_extension_days" validate:"gte=0"`
	StatutoryReference string     `json:"statutory_reference" validate:"max=500"`
	Confidence         Confidence `json:"confidence" validate:"required,oneof=Medium-Augmented Abstain"`
}

// Record converts a contract-checked answer into a ProceduralRecord
func (a AugmentedAnswer) Record(lawCode string) ProceduralRecord {
	return ProceduralRecord{
		LawCode:            lawCode,
		CurrentStage:       a.CurrentStage,
		NextStep:           a.NextStep,
		TimelineDays:       a.TimelineDays,
		MaxExtensionDays:   a.MaxExtensionDays,
		StatutoryReference: a.StatutoryReference,
		Confidence:         a.Confidence,
	}
}
