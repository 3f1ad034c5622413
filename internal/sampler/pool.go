package sampler

import (
	"sync"

	"github.com/leandrodaf/piano/sdk/contracts"
	"golang.org/x/sync/errgroup"
)

// Pool runs background tasks on at most a fixed number of goroutines. Submitting never
// blocks: tasks wait in a FIFO backlog until a worker picks them up.
type Pool struct {
	logger  contracts.Logger
	group   errgroup.Group
	workers int

	mu      sync.Mutex
	backlog []func() error
	active  int
	closed  bool
}

// NewPool creates a pool with the given number of workers (at least one).
func NewPool(workers int, logger contracts.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{logger: logger, workers: workers}
}

// Go queues task. It returns false once the pool is closed.
func (p *Pool) Go(task func() error) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.backlog = append(p.backlog, task)
	spawn := p.active < p.workers
	if spawn {
		p.active++
	}
	p.mu.Unlock()

	if spawn {
		p.group.Go(p.drain)
	}
	return true
}

func (p *Pool) drain() error {
	var firstErr error
	for {
		p.mu.Lock()
		if len(p.backlog) == 0 {
			p.active--
			p.mu.Unlock()
			return firstErr
		}
		task := p.backlog[0]
		p.backlog[0] = nil
		p.backlog = p.backlog[1:]
		p.mu.Unlock()

		if err := task(); err != nil {
			p.logger.Warn("background task failed", p.logger.Field().Error("error", err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
}

// Close drops queued tasks, waits for the running ones and returns the first task error.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	dropped := len(p.backlog)
	p.backlog = nil
	p.mu.Unlock()

	if dropped > 0 {
		p.logger.Debug("dropping queued background tasks", p.logger.Field().Int("tasks", dropped))
	}
	return p.group.Wait()
}
