package skill

import (
	"context"
	"fmt"

	"github.com/ppiankov/lexcore/internal/draft"
	"github.com/ppiankov/lexcore/internal/extract"
	"github.com/ppiankov/lexcore/internal/model"
	"github.com/ppiankov/lexcore/internal/procedural"
	"github.com/ppiankov/lexcore/internal/validate"
	"go.uber.org/zap"
)

// Input carries the arguments of every operation; each operation reads only
// its own fields
type Input struct {
	Text      string                `json:"text"`      // summarize
	Window    int                   `json:"window"`    // summarize
	Citations string                `json:"citations"` // check-citations
	Query     model.ProceduralQuery `json:"query"`     // resolve-procedure
	Template  string                `json:"template"`  // fill-template
	Vars      map[string]string     `json:"vars"`      // fill-template
}

// Result holds the output of one operation. Only the field belonging to the
// dispatched operation is set.
type Result struct {
	Operation Operation               `json:"operation"`
	Summary   *model.Summary          `json:"summary,omitempty"`
	Citations []model.Citation        `json:"citations,omitempty"`
	Procedure *model.ProceduralRecord `json:"procedure,omitempty"`
	Document  *string                 `json:"document,omitempty"`
	Missing   []string                `json:"missing_placeholders,omitempty"`
}

// Dispatcher runs operations against the core components
type Dispatcher struct {
	validator *validate.CitationValidator
	resolver  *procedural.Resolver
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher. A nil resolver means the built-in table
// with no collaborator.
func NewDispatcher(resolver *procedural.Resolver, logger *zap.Logger) *Dispatcher {
	if resolver == nil {
		resolver = procedural.NewResolver()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		validator: validate.NewCitationValidator(),
		resolver:  resolver,
		logger:    logger,
	}
}

// Dispatch runs op over in. Only resolve-procedure can fail on valid input.
func (d *Dispatcher) Dispatch(ctx context.Context, op Operation, in Input) (*Result, error) {
	d.logger.Debug("Dispatching operation", zap.Stringer("operation", op))

	result := &Result{Operation: op}

	switch op {
	case OpSummarize:
		summary := extract.Summarize(in.Text, in.Window)
		result.Summary = &summary
	case OpCheckCitations:
		result.Citations = d.validator.Validate(in.Citations)
	case OpResolveProcedure:
		record, err := d.resolver.Resolve(ctx, in.Query)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Procedure = record
	case OpFillTemplate:
		document := draft.Fill(in.Template, in.Vars)
		result.Document = &document
		result.Missing = draft.Missing(in.Template, in.Vars)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}

	return result, nil
}
