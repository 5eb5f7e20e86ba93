package worker

import (
	"context"
	"sort"
	"sync"
)

// Job represents a unit of work to be executed.
// lane identifies the worker running it, so a job can use lane-local state
// such as its own pacer.
type Job interface {
	Execute(ctx context.Context, lane int) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context, lane int) Result

// Execute calls f
func (f JobFunc) Execute(ctx context.Context, lane int) Result {
	return f(ctx, lane)
}

type task struct {
	index int
	job   Job
}

// Pool manages a pool of workers that execute jobs concurrently.
// Results are returned in submission order.
type Pool struct {
	workers    int
	jobQueue   chan task
	collector  *ResultCollector
	submitted  int
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	return NewPoolWithContext(context.Background(), workers)
}

// NewPoolWithContext creates a pool whose jobs observe ctx
func NewPoolWithContext(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan task, workers*2), // Buffered to prevent blocking
		collector:  NewResultCollector(),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Workers returns the number of lanes
func (p *Pool) Workers() int {
	return p.workers
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// worker is the worker goroutine that processes jobs
func (p *Pool) worker(lane int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.collector.Add(t.index, t.job.Execute(p.ctx, lane))
		}
	}
}

// Submit submits a job to the pool for execution.
// Submit must not be called concurrently with itself or Wait.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- task{index: p.submitted, job: job}:
		p.submitted++
	}
}

// Wait waits for all jobs to complete and returns the results in
// submission order. Jobs dropped by Shutdown are omitted.
func (p *Pool) Wait() []Result {
	p.closeQueue()
	p.wg.Wait()
	return p.collector.Results()
}

// Shutdown shuts down the worker pool immediately
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
}

func (p *Pool) closeQueue() {
	p.closeOnce.Do(func() {
		close(p.jobQueue)
	})
}

// ResultCollector gathers results from concurrent workers and returns
// them ordered by job index
type ResultCollector struct {
	results map[int]Result
	mu      sync.Mutex
}

// NewResultCollector creates a new result collector
func NewResultCollector() *ResultCollector {
	return &ResultCollector{
		results: make(map[int]Result),
	}
}

// Add records the result of job index (thread-safe)
func (c *ResultCollector) Add(index int, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[index] = result
}

// Results returns all collected results ordered by index
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	indexes := make([]int, 0, len(c.results))
	for i := range c.results {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := make([]Result, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, c.results[i])
	}
	return out
}
