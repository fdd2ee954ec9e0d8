package model

// Citation is the format-level assessment of one citation candidate
type Citation struct {
	Citation  string  `json:"citation"`  // Normalized candidate text
	Valid     bool    `json:"valid"`     // Whether any known format matched
	Pattern   *string `json:"pattern"`   // Identifier of the first matching format (null if none)
	Corrected *string `json:"corrected"` // Always null: no unverifiable corrections are proposed
	Message   string  `json:"message"`   // Diagnostic message
}

// Citation diagnostic messages
const (
	CitationKnownFormat  = "matches a known format"
	CitationUnrecognized = "unrecognized format; cannot verify"
)
