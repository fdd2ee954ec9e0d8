package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ppiankov/lexcore/internal/cache"
	"github.com/ppiankov/lexcore/internal/model"
	"github.com/ppiankov/lexcore/internal/procedural"
	"github.com/ppiankov/lexcore/internal/worker"
)

// rateLimited throttles Augment calls through a shared limiter keyed by provider name
type rateLimited struct {
	Provider
	limiter *worker.Limiter
}

// RateLimited wraps p so every Augment call first waits for a limiter token
func RateLimited(p Provider, limiter *worker.Limiter) Provider {
	if p == nil || limiter == nil {
		return p
	}
	return &rateLimited{Provider: p, limiter: limiter}
}

func (r *rateLimited) Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	if err := r.limiter.Wait(ctx, r.Name()); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return r.Provider.Augment(ctx, q)
}

// cached serves repeated queries from an answer cache
type cached struct {
	Provider
	cache cache.Cache
	ttl   time.Duration
}

// Cached wraps p with an answer cache. Only contract-valid Medium-Augmented
// answers are stored; Abstain answers and errors always reach the provider again.
func Cached(p Provider, c cache.Cache, ttl time.Duration) Provider {
	if p == nil || c == nil {
		return p
	}
	return &cached{Provider: p, cache: c, ttl: ttl}
}

func (c *cached) Augment(ctx context.Context, q model.ProceduralQuery) (*model.AugmentedAnswer, error) {
	key := cache.CacheKey(c.Name(), q.LawCode, q.CaseStage)

	if data, ok := c.cache.Get(key); ok {
		var answer model.AugmentedAnswer
		if err := json.Unmarshal(data, &answer); err == nil {
			return &answer, nil
		}
		_ = c.cache.Delete(key)
	}

	answer, err := c.Provider.Augment(ctx, q)
	if err != nil {
		return nil, err
	}

	if answer != nil && answer.Confidence == model.ConfidenceMedium && procedural.CheckAnswer(answer) == nil {
		if data, err := json.Marshal(answer); err == nil {
			_ = c.cache.Set(key, data, c.ttl)
		}
	}

	return answer, nil
}
