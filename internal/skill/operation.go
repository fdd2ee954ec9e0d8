package skill

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOperation is returned for names and values outside the operation set
var ErrUnknownOperation = errors.New("unknown operation")

// Operation is one of the fixed core operations
type Operation int

const (
	OpSummarize Operation = iota + 1
	OpCheckCitations
	OpResolveProcedure
	OpFillTemplate
)

var operationNames = map[Operation]string{
	OpSummarize:        "summarize",
	OpCheckCitations:   "check-citations",
	OpResolveProcedure: "resolve-procedure",
	OpFillTemplate:     "fill-template",
}

// aliases maps older skill names onto operations
var aliases = map[string]Operation{
	"summarize_case":   OpSummarize,
	"summary":          OpSummarize,
	"citation_checker": OpCheckCitations,
	"cite":             OpCheckCitations,
	"procedure":        OpResolveProcedure,
	"procedural":       OpResolveProcedure,
	"drafting":         OpFillTemplate,
	"document_fill":    OpFillTemplate,
	"fill":             OpFillTemplate,
}

// Operations returns every operation in declaration order
func Operations() []Operation {
	return []Operation{OpSummarize, OpCheckCitations, OpResolveProcedure, OpFillTemplate}
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Valid reports whether o is a member of the operation set
func (o Operation) Valid() bool {
	_, ok := operationNames[o]
	return ok
}

// MarshalJSON encodes the canonical name
func (o Operation) MarshalJSON() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperation, int(o))
	}
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts canonical names and aliases
func (o *Operation) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	op, err := ParseOperation(name)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// ParseOperation resolves a name (case-insensitive, '_' and '-' interchangeable)
// to an operation
func ParseOperation(name string) (Operation, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if op, ok := aliases[key]; ok {
		return op, nil
	}
	canonical := strings.ReplaceAll(key, "_", "-")
	for op, n := range operationNames {
		if n == canonical {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
}
