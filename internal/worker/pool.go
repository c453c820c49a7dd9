package worker

import (
	"context"
	"sort"
	"sync"
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job
type Result interface {
	GetError() error
}

// indexed pairs a job or result with its submission order
type indexed[T any] struct {
	seq  int
	item T
}

// Pool runs jobs on a fixed number of workers and returns results in submission order
type Pool struct {
	workers    int
	jobQueue   chan indexed[Job]
	results    chan indexed[Result]
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	submitted  int
	collected  chan []indexed[Result]
}

// NewPool creates a pool bound to ctx; a non-positive worker count means one worker
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	p := &Pool{
		workers:    workers,
		jobQueue:   make(chan indexed[Job], workers*2),
		results:    make(chan indexed[Result], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
		collected:  make(chan []indexed[Result], 1),
	}
	go p.collect()
	return p
}

// collect drains results as they arrive so workers never block on a full channel
func (p *Pool) collect() {
	var collected []indexed[Result]
	for r := range p.results {
		collected = append(collected, r)
	}
	p.collected <- collected
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.item.Execute(p.ctx)
			select {
			case p.results <- indexed[Result]{seq: job.seq, item: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It must not be called concurrently with itself or after Wait.
// Returns false when the pool was cancelled before the job could be queued.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- indexed[Job]{seq: p.submitted, item: job}:
		p.submitted++
		return true
	}
}

// Wait closes the queue, waits for the workers and returns results in submission order.
// Results of jobs lost to cancellation are missing.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()

	collected := <-p.collected
	p.cancelFunc()

	sort.Slice(collected, func(i, j int) bool { return collected[i].seq < collected[j].seq })
	results := make([]Result, len(collected))
	for i, r := range collected {
		results[i] = r.item
	}
	return results
}

// Shutdown cancels outstanding work and stops the workers
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
