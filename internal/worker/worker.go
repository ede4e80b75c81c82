package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Task is one unit of background work. Errors are logged, not retried.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool runs tasks off the request path on a fixed set of workers.
type Pool interface {
	Submit(Task)
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int, logger zerolog.Logger) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{
		jobs:   make(chan Task, n*16),
		logger: logger,
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(job)
			}
		}()
	}
	return p
}

type pool struct {
	jobs    chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
	logger  zerolog.Logger
}

func (p *pool) run(t Task) {
	if t.Run == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Str("task", t.Name).Interface("panic", r).Msg("worker task panicked")
		}
	}()
	if err := t.Run(context.Background()); err != nil {
		p.logger.Error().Err(err).Str("task", t.Name).Msg("worker task failed")
	}
}

// Submit queues t. Tasks submitted after Stop are dropped.
func (p *pool) Submit(t Task) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		p.logger.Warn().Str("task", t.Name).Msg("worker pool stopped, task dropped")
		return
	}
	p.jobs <- t
}

// Stop waits for queued tasks to finish.
func (p *pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Inline runs every task synchronously on Submit; handy in tests.
type Inline struct {
	Ran []string
}

func (i *Inline) Submit(t Task) {
	i.Ran = append(i.Ran, t.Name)
	if t.Run != nil {
		_ = t.Run(context.Background())
	}
}

func (i *Inline) Stop() {}
