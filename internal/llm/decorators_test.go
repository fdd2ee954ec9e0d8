package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/lexcore/internal/cache"
	"github.com/ppiankov/lexcore/internal/model"
	"github.com/ppiankov/lexcore/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider implements Provider and counts Augment calls
type countingProvider struct {
	answer *model.AugmentedAnswer
	err    error
	calls  atomic.Int32
}

func (p *countingProvider) Name() string                         { return "counting" }
func (p *countingProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *countingProvider) Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	a := *p.answer
	return &a, nil
}

func medium() *model.AugmentedAnswer {
	return &model.AugmentedAnswer{
		CurrentStage:       "Arbitral award received",
		NextStep:           "Application to set aside the award",
		TimelineDays:       90,
		MaxExtensionDays:   30,
		StatutoryReference: "Section 34(3), Arbitration and Conciliation Act, 1996",
		Confidence:         model.ConfidenceMedium,
	}
}

func TestCached_StoresMediumAnswers(t *testing.T) {
	inner := &countingProvider{answer: medium()}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	p := Cached(inner, store, time.Minute)

	first, err := p.Augment(context.Background(), arbitrationQuery)
	require.NoError(t, err)

	// Equivalent query differing only in case and spacing
	second, err := p.Augment(context.Background(), model.ProceduralQuery{
		CaseStage: "arbitration  award passed",
		LawCode:   "ARBITRATION AND CONCILIATION ACT",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, first, second)
	assert.Equal(t, "counting", p.Name())
}

func TestCached_SkipsAbstain(t *testing.T) {
	inner := &countingProvider{answer: &model.AugmentedAnswer{Confidence: model.ConfidenceAbstain}}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	p := Cached(inner, store, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := p.Augment(context.Background(), arbitrationQuery)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), inner.calls.Load())
	assert.Zero(t, store.Len())
}

func TestCached_SkipsContractViolations(t *testing.T) {
	bad := medium()
	bad.StatutoryReference = ""
	inner := &countingProvider{answer: bad}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	p := Cached(inner, store, time.Minute)

	_, _ = p.Augment(context.Background(), arbitrationQuery)
	_, _ = p.Augment(context.Background(), arbitrationQuery)

	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Zero(t, store.Len())
}

func TestCached_SkipsErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("unreachable")}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	p := Cached(inner, store, time.Minute)

	_, err := p.Augment(context.Background(), arbitrationQuery)
	assert.Error(t, err)
	assert.Zero(t, store.Len())
}

func TestCached_CorruptEntryIsRefetched(t *testing.T) {
	inner := &countingProvider{answer: medium()}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	key := cache.CacheKey(inner.Name(), arbitrationQuery.LawCode, arbitrationQuery.CaseStage)
	require.NoError(t, store.Set(key, []byte("not json"), 0))

	answer, err := Cached(inner, store, time.Minute).Augment(context.Background(), arbitrationQuery)
	require.NoError(t, err)
	assert.Equal(t, 90, answer.TimelineDays)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestRateLimited_Throttles(t *testing.T) {
	inner := &countingProvider{answer: medium()}
	limiter := worker.NewLimiter(0.01, 1)
	p := RateLimited(inner, limiter)

	_, err := p.Augment(context.Background(), arbitrationQuery)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = p.Augment(ctx, arbitrationQuery)
	require.Error(t, err)
	assert.Equal(t, int32(1), inner.calls.Load(), "throttled call must not reach the provider")
}

func TestRateLimited_Cancelled(t *testing.T) {
	inner := &countingProvider{answer: medium()}
	p := RateLimited(inner, worker.NewLimiter(0.01, 1))
	_, _ = p.Augment(context.Background(), arbitrationQuery)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Augment(ctx, arbitrationQuery)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecorators_NilPassthrough(t *testing.T) {
	inner := &countingProvider{answer: medium()}

	assert.Same(t, Provider(inner), RateLimited(inner, nil))
	assert.Same(t, Provider(inner), Cached(inner, nil, time.Minute))
	assert.Nil(t, RateLimited(nil, worker.NewLimiter(1, 1)))
}
