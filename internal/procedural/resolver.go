package procedural

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/lexcore/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// DefaultEscalationTimeout bounds a single collaborator call
const DefaultEscalationTimeout = 30 * time.Second

var (
	// resolutionsTotal counts returned records by confidence tier
	resolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lexcore_procedural_resolutions_total",
		Help: "Procedural records returned, by confidence tier",
	}, []string{"confidence"})

	// resolutionErrors counts failed resolutions by error kind
	resolutionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lexcore_procedural_errors_total",
		Help: "Procedural resolutions that failed, by error kind",
	}, []string{"kind"})
)

// Augmenter is the external collaborator consulted when the table has no answer.
// Implementations must return an answer in the contract shape or an error;
// they must not substitute a guess for a failure.
type Augmenter interface {
	Name() string
	Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error)
}

// Resolver maps a case stage and law code to the next procedural step.
// It is safe for concurrent use.
type Resolver struct {
	table     *Table
	augmenter Augmenter
	timeout   time.Duration
	logger    *zap.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithTable replaces the built-in table
func WithTable(t *Table) Option {
	return func(r *Resolver) {
		if t != nil {
			r.table = t
		}
	}
}

// WithAugmenter sets the escalation collaborator (nil leaves escalation unconfigured)
func WithAugmenter(a Augmenter) Option {
	return func(r *Resolver) {
		r.augmenter = a
	}
}

// WithTimeout bounds each escalation call
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver over the built-in table with no collaborator
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		table:   DefaultTable(),
		timeout: DefaultEscalationTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the procedural record for q.
//
// A table hit returns a High-Deterministic record. Otherwise the collaborator
// is consulted and its answer is returned only if it honours the contract.
// The resolver never invents day counts: every failure, including
// cancellation, is returned as an error rather than as an Abstain record.
func (r *Resolver) Resolve(ctx context.Context, q model.ProceduralQuery) (*model.ProceduralRecord, error) {
	if q.IsBlank() {
		resolutionErrors.WithLabelValues("malformed").Inc()
		return nil, model.ErrMalformedQuery
	}

	if record, ok := r.table.Lookup(q); ok {
		r.logger.Debug("Procedural table hit",
			zap.String("law_code", q.LawCode),
			zap.String("stage", q.CaseStage),
			zap.String("canonical_stage", record.CurrentStage))
		resolutionsTotal.WithLabelValues(string(record.Confidence)).Inc()
		return &record, nil
	}

	return r.escalate(ctx, q)
}

// escalate consults the collaborator under the configured timeout
func (r *Resolver) escalate(ctx context.Context, q model.ProceduralQuery) (*model.ProceduralRecord, error) {
	if r.augmenter == nil {
		resolutionErrors.WithLabelValues("configuration").Inc()
		return nil, fmt.Errorf("%w: no table entry for stage %q under %q and no collaborator is set",
			model.ErrConfiguration, q.CaseStage, q.LawCode)
	}

	requestID := uuid.NewString()
	logger := r.logger.With(
		zap.String("request_id", requestID),
		zap.String("collaborator", r.augmenter.Name()),
		zap.String("law_code", q.LawCode),
		zap.String("stage", q.CaseStage))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	logger.Info("Escalating procedural query", zap.Duration("timeout", r.timeout))

	answer, err := r.augmenter.Augment(ctx, q)
	if err != nil {
		if errors.Is(err, model.ErrConfiguration) {
			resolutionErrors.WithLabelValues("configuration").Inc()
			logger.Warn("Collaborator not configured", zap.Error(err))
			return nil, err
		}
		resolutionErrors.WithLabelValues("collaborator").Inc()
		logger.Warn("Collaborator call failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("%w: %s: %w", model.ErrCollaborator, r.augmenter.Name(), err)
	}

	if err := CheckAnswer(answer); err != nil {
		resolutionErrors.WithLabelValues("contract").Inc()
		logger.Warn("Collaborator answer rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", model.ErrCollaborator, r.augmenter.Name(), err)
	}

	record := answer.Record(q.LawCode)
	resolutionsTotal.WithLabelValues(string(record.Confidence)).Inc()
	logger.Info("Collaborator answered",
		zap.String("confidence", string(record.Confidence)),
		zap.Int("timeline_days", record.TimelineDays),
		zap.Duration("elapsed", time.Since(start)))

	return &record, nil
}
