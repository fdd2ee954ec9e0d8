package procedural

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/lexcore/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAugmenter implements Augmenter for testing
type fakeAugmenter struct {
	answer *model.AugmentedAnswer
	err    error
	delay  time.Duration

	mu    sync.Mutex
	calls []model.ProceduralQuery
}

func (f *fakeAugmenter) Name() string {
	return "fake"
}

func (f *fakeAugmenter) Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func (f *fakeAugmenter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func mediumAnswerPtr() *model.AugmentedAnswer {
	return &model.AugmentedAnswer{
		CurrentStage:       "Arbitral award received",
		NextStep:           "Application for setting aside the award",
		TimelineDays:       90,
		MaxExtensionDays:   30,
		StatutoryReference: "Section 34(3), Arbitration and Conciliation Act, 1996",
		Confidence:         model.ConfidenceMedium,
	}
}

func TestResolver_TableHit(t *testing.T) {
	aug := &fakeAugmenter{answer: mediumAnswerPtr()}
	resolver := NewResolver(WithAugmenter(aug))

	record, err := resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "summons received", LawCode: "CPC"})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, model.ConfidenceHigh, record.Confidence)
	assert.Equal(t, 30, record.TimelineDays)
	assert.Equal(t, 120, record.MaxExtensionDays)
	assert.Contains(t, record.StatutoryReference, "Order VIII Rule 1")
	assert.Equal(t, "Filing of Written Statement", record.NextStep)
	assert.Zero(t, aug.callCount(), "table hit must not escalate")
}

func TestResolver_TableMatching(t *testing.T) {
	resolver := NewResolver()

	tests := []struct {
		name      string
		query     model.ProceduralQuery
		wantDays  int
		wantStage string
	}{
		{"case-folded", model.ProceduralQuery{CaseStage: "SUMMONS RECEIVED", LawCode: "cpc"}, 30, "Summons received"},
		{"query contains label", model.ProceduralQuery{CaseStage: "Summons received yesterday from the court", LawCode: "CPC"}, 30, "Summons received"},
		{"label contains query", model.ProceduralQuery{CaseStage: "issues", LawCode: "CPC"}, 15, "Issues framed by Court"},
		{"dotted law code", model.ProceduralQuery{CaseStage: "FIR registered", LawCode: "Cr.P.C."}, 60, "FIR Registered"},
		{"extra whitespace", model.ProceduralQuery{CaseStage: "  fir   registered ", LawCode: " CrPC "}, 60, "FIR Registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := resolver.Resolve(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, model.ConfidenceHigh, record.Confidence)
			assert.Equal(t, tt.wantDays, record.TimelineDays)
			assert.Equal(t, tt.wantStage, record.CurrentStage)
		})
	}
}

func TestResolver_NoCollaborator(t *testing.T) {
	resolver := NewResolver()

	record, err := resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "Arbitration award passed", LawCode: "Arbitration and Conciliation Act"})
	require.Error(t, err)
	assert.Nil(t, record, "must never fabricate a record")
	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.NotErrorIs(t, err, model.ErrCollaborator)
}

func TestResolver_KnownCodeUnknownStageEscalates(t *testing.T) {
	aug := &fakeAugmenter{answer: mediumAnswerPtr()}
	resolver := NewResolver(WithAugmenter(aug))

	_, err := resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "decree passed", LawCode: "CPC"})
	require.NoError(t, err)
	assert.Equal(t, 1, aug.callCount())
}

func TestResolver_EmptyStageNeverMatchesTable(t *testing.T) {
	resolver := NewResolver()

	_, err := resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "", LawCode: "CPC"})
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestResolver_MalformedQuery(t *testing.T) {
	aug := &fakeAugmenter{answer: mediumAnswerPtr()}
	resolver := NewResolver(WithAugmenter(aug))

	for _, q := range []model.ProceduralQuery{{}, {CaseStage: "  ", LawCode: "\t"}} {
		record, err := resolver.Resolve(context.Background(), q)
		assert.ErrorIs(t, err, model.ErrMalformedQuery)
		assert.Nil(t, record)
	}
	assert.Zero(t, aug.callCount())
}

func TestResolver_MediumAugmented(t *testing.T) {
	aug := &fakeAugmenter{answer: mediumAnswerPtr()}
	resolver := NewResolver(WithAugmenter(aug))

	q := model.ProceduralQuery{CaseStage: "Arbitration award passed", LawCode: "Arbitration and Conciliation Act"}
	record, err := resolver.Resolve(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, model.ConfidenceMedium, record.Confidence)
	assert.Equal(t, 90, record.TimelineDays)
	assert.Equal(t, "Section 34(3), Arbitration and Conciliation Act, 1996", record.StatutoryReference)
	assert.Equal(t, "Arbitration and Conciliation Act", record.LawCode)
	assert.Equal(t, []model.ProceduralQuery{q}, aug.calls)
}

func TestResolver_Abstain(t *testing.T) {
	aug := &fakeAugmenter{answer: &model.AugmentedAnswer{
		CurrentStage: "Unknown stage",
		Confidence:   model.ConfidenceAbstain,
	}}
	resolver := NewResolver(WithAugmenter(aug))

	record, err := resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "something obscure", LawCode: "NDPS"})
	require.NoError(t, err)
	assert.Equal(t, model.ConfidenceAbstain, record.Confidence)
	assert.Zero(t, record.TimelineDays)
	assert.Zero(t, record.MaxExtensionDays)
	assert.False(t, record.Confidence.IsAuthoritative())
}

func TestResolver_ContractViolations(t *testing.T) {
	tests := []struct {
		name   string
		answer *model.AugmentedAnswer
	}{
		{"nil answer", nil},
		{"abstain with days", &model.AugmentedAnswer{Confidence: model.ConfidenceAbstain, TimelineDays: 30}},
		{"abstain with extension", &model.AugmentedAnswer{Confidence: model.ConfidenceAbstain, MaxExtensionDays: 5}},
		{"medium without statute", &model.AugmentedAnswer{Confidence: model.ConfidenceMedium, NextStep: "x", TimelineDays: 30}},
		{"medium with zero days", &model.AugmentedAnswer{Confidence: model.ConfidenceMedium, NextStep: "x", StatutoryReference: "s. 34"}},
		{"medium without next step", &model.AugmentedAnswer{Confidence: model.ConfidenceMedium, TimelineDays: 30, StatutoryReference: "s. 34"}},
		{"negative extension", &model.AugmentedAnswer{Confidence: model.ConfidenceMedium, NextStep: "x", TimelineDays: 30, MaxExtensionDays: -1, StatutoryReference: "s. 34"}},
		{"high claimed by collaborator", &model.AugmentedAnswer{Confidence: model.ConfidenceHigh, NextStep: "x", TimelineDays: 30, StatutoryReference: "s. 34"}},
		{"unknown tier", &model.AugmentedAnswer{Confidence: "Medium (LLM Generated)", NextStep: "x", TimelineDays: 30, StatutoryReference: "s. 34"}},
		{"missing tier", &model.AugmentedAnswer{NextStep: "x", TimelineDays: 30, StatutoryReference: "s. 34"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(WithAugmenter(&fakeAugmenter{answer: tt.answer}))

			record, err := resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "award passed", LawCode: "Arbitration Act"})
			require.Error(t, err)
			assert.Nil(t, record)
			assert.ErrorIs(t, err, model.ErrCollaborator)
		})
	}
}

func TestResolver_CollaboratorError(t *testing.T) {
	cause := errors.New("connection refused")
	resolver := NewResolver(WithAugmenter(&fakeAugmenter{err: cause}))

	record, err := resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "award passed", LawCode: "Arbitration Act"})
	assert.Nil(t, record)
	assert.ErrorIs(t, err, model.ErrCollaborator)
	assert.ErrorIs(t, err, cause)
}

func TestResolver_CollaboratorNotConfigured(t *testing.T) {
	cause := errors.Join(model.ErrConfiguration, errors.New("OPENAI_API_KEY not set"))
	resolver := NewResolver(WithAugmenter(&fakeAugmenter{err: cause}))

	_, err := resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "award passed", LawCode: "Arbitration Act"})
	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.NotErrorIs(t, err, model.ErrCollaborator)
}

func TestResolver_Timeout(t *testing.T) {
	aug := &fakeAugmenter{answer: mediumAnswerPtr(), delay: time.Second}
	resolver := NewResolver(WithAugmenter(aug), WithTimeout(20*time.Millisecond))

	start := time.Now()
	record, err := resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "award passed", LawCode: "Arbitration Act"})
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	assert.Nil(t, record)
	assert.ErrorIs(t, err, model.ErrCollaborator)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolver_Cancellation(t *testing.T) {
	aug := &fakeAugmenter{answer: mediumAnswerPtr(), delay: time.Second}
	resolver := NewResolver(WithAugmenter(aug))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	record, err := resolver.Resolve(ctx, model.ProceduralQuery{CaseStage: "award passed", LawCode: "Arbitration Act"})
	assert.Nil(t, record, "cancellation must not degrade into an Abstain record")
	assert.ErrorIs(t, err, model.ErrCollaborator)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolver_Concurrent(t *testing.T) {
	resolver := NewResolver(WithAugmenter(&fakeAugmenter{answer: mediumAnswerPtr()}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := model.ProceduralQuery{CaseStage: "summons received", LawCode: "CPC"}
			if i%2 == 1 {
				q = model.ProceduralQuery{CaseStage: "award passed", LawCode: "Arbitration Act"}
			}
			record, err := resolver.Resolve(context.Background(), q)
			assert.NoError(t, err)
			assert.NotNil(t, record)
		}(i)
	}
	wg.Wait()
}

func TestResolver_Metrics(t *testing.T) {
	resolver := NewResolver()

	hits := resolutionsTotal.WithLabelValues(string(model.ConfidenceHigh))
	configErrs := resolutionErrors.WithLabelValues("configuration")
	hitsBefore, errsBefore := testutil.ToFloat64(hits), testutil.ToFloat64(configErrs)

	_, _ = resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "summons received", LawCode: "CPC"})
	_, _ = resolver.Resolve(context.Background(), model.ProceduralQuery{CaseStage: "award passed", LawCode: "Arbitration Act"})

	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(hits))
	assert.Equal(t, errsBefore+1, testutil.ToFloat64(configErrs))
}
