package worker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Job is a unit of work run by a Pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a Job produces; failures are carried, not returned
type Result interface {
	GetError() error
}

// Pool runs submitted jobs with at most workers of them in flight.
// Submit blocks while every worker is busy.
type Pool struct {
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	group   errgroup.Group
	results *ResultCollector
}

// NewPool creates a pool whose jobs run under a context derived from parent
func NewPool(parent context.Context, workers int) *Pool {
	workers = max(workers, 1)
	ctx, cancel := context.WithCancel(parent)
	p := &Pool{
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
		results: NewResultCollector(),
	}
	p.group.SetLimit(workers)
	return p
}

// Submit schedules job. After Shutdown, or once the parent context is done,
// jobs are dropped without running.
func (p *Pool) Submit(job Job) {
	if p.ctx.Err() != nil {
		return
	}
	p.group.Go(func() error {
		if p.ctx.Err() != nil {
			return nil
		}
		p.results.Add(job.Execute(p.ctx))
		return nil
	})
}

// Wait blocks until every submitted job has finished and returns their
// results in completion order. The pool cannot be reused afterwards.
func (p *Pool) Wait() []Result {
	_ = p.group.Wait()
	p.cancel()
	return p.results.Results()
}

// Shutdown cancels in-flight jobs and waits for them to return
func (p *Pool) Shutdown() {
	p.cancel()
	_ = p.group.Wait()
}

// ResultCollector accumulates results from concurrent jobs
type ResultCollector struct {
	mu      sync.Mutex
	results []Result
}

func NewResultCollector() *ResultCollector {
	return &ResultCollector{}
}

func (c *ResultCollector) Add(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

// Results returns a snapshot of everything added so far
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}
