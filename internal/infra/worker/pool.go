// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// ErrStopped is returned by Submit once the pool is shutting down.
var ErrStopped = errors.New("worker pool stopped")

// Task is one unit of work; errors are logged, never retried.
type Task func(ctx context.Context) error

// Pool runs submitted tasks on a fixed number of goroutines.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan Task
	quit chan struct{}
	stop sync.Once
	n    int
	log  *zerolog.Logger
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Pool{jobs: make(chan Task, workers*4), quit: make(chan struct{}), n: workers, log: logger}
}

// Start launches the workers. They exit when ctx is done or Stop is called.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.jobs:
					p.run(ctx, id, task)
				}
			}
		}(i)
	}
}

func (p *Pool) run(ctx context.Context, id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Int("worker", id).Interface("panic", r).Msg("worker task panicked")
		}
	}()
	if err := task(ctx); err != nil {
		p.log.Error().Err(err).Int("worker", id).Msg("worker task error")
	}
}

// Stop signals the workers and waits for in-flight tasks. Queued tasks
// that have not started are dropped.
func (p *Pool) Stop() {
	p.stop.Do(func() { close(p.quit) })
	p.wg.Wait()
}

// Submit queues task, blocking while the queue is full until ctx is done
// or the pool stops.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	select {
	case p.jobs <- task:
		return nil
	case <-p.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
