package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultBurst = 5

// Limiter keeps one token bucket per key. The fetcher keys by host and the
// collaborator decorator keys by provider name.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewLimiter allows requestsPerSecond per key with the given burst.
// A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = defaultBurst
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}
}

// Wait blocks until key has a token or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.bucket(key).Wait(ctx)
}

// Allow takes a token for key if one is available
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// WaitSpaced is Wait for a key whose requests must be at least interval
// apart, as a robots.txt Crawl-delay demands. The key's bucket is slowed to
// one token per interval the first time a longer interval is seen; it is
// never sped up again.
func (l *Limiter) WaitSpaced(ctx context.Context, key string, interval time.Duration) error {
	if interval > 0 {
		l.slowTo(key, rate.Every(interval))
	}
	return l.Wait(ctx, key)
}

// SetRate replaces the bucket for key. A non-positive burst keeps the default.
func (l *Limiter) SetRate(key string, requestsPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.burst
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets[key] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	return b
}

func (l *Limiter) slowTo(key string, limit rate.Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[key]; ok && b.Limit() <= limit && b.Burst() == 1 {
		return
	}
	l.buckets[key] = rate.NewLimiter(min(limit, l.limit), 1)
}

// HostKey returns the limiter key for a URL (its host)
func HostKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("no host in URL %q", rawURL)
	}
	return u.Host, nil
}
