package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

const maxRobotsBytes = 512 * 1024

// RobotsChecker answers whether a judgment URL may be fetched. Each host's
// robots.txt is downloaded at most once per checker, even under concurrent
// callers.
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	token     string

	mu    sync.RWMutex
	hosts map[string]*robotstxt.RobotsData
	group singleflight.Group
}

func NewRobotsChecker(userAgent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		token:     NormalizeUserAgent(userAgent),
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// CanFetch reports whether rawURL is allowed for this agent and the crawl
// delay the host asks for. A robots.txt that cannot be retrieved allows the
// fetch.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}
	if u.Host == "" {
		return false, 0, fmt.Errorf("no host in URL %q", rawURL)
	}

	rules, err := r.rules(ctx, u)
	if err != nil {
		return true, 0, nil
	}

	var delay time.Duration
	if g := rules.FindGroup(r.token); g != nil {
		delay = g.CrawlDelay
	}
	return rules.TestAgent(requestPath(u), r.token), delay, nil
}

func requestPath(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	if u.RawQuery != "" {
		p += "?" + u.RawQuery
	}
	return p
}

func (r *RobotsChecker) rules(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	cached, ok := r.hosts[u.Host]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	// The download outlives any single caller; the client timeout bounds it
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(u.Host, func() (any, error) {
		data, err := r.download(shared, u.Scheme+"://"+u.Host+"/robots.txt")
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.hosts[u.Host] = data
		r.mu.Unlock()
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*robotstxt.RobotsData), nil
	}
}

func (r *RobotsChecker) download(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	// robotstxt maps 4xx to allow-all and 5xx to disallow-all
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// Clear forgets every cached robots.txt
func (r *RobotsChecker) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.hosts)
}

// NormalizeUserAgent reduces a user agent to its product token for robots.txt
// matching ("lexcore/0.1 (+https://...)" -> "lexcore")
func NormalizeUserAgent(ua string) string {
	product, _, _ := strings.Cut(strings.TrimSpace(ua), " ")
	name, _, _ := strings.Cut(product, "/")
	return name
}
