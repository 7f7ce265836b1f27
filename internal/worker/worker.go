package worker

import (
	"context"
	"sync"
)

// Task represents a unit of work executed by the pool.
type Task func()

// Pool is a fixed set of goroutines shared by all requests.
type Pool interface {
	// Submit hands t to a free worker. It blocks until one accepts the task
	// or ctx is done, in which case the task is dropped and ctx.Err is returned.
	Submit(ctx context.Context, t Task) error
	// Stop waits for accepted tasks to finish. Submit must not be called after Stop.
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				if job != nil {
					job()
				}
			}
		}()
	}
	return p
}

type pool struct {
	jobs chan Task
	wg   sync.WaitGroup
	once sync.Once
}

func (p *pool) Submit(ctx context.Context, t Task) error {
	select {
	case p.jobs <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pool) Stop() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}

// Inline runs every task on the caller's goroutine. Tests use it where
// ordering must be deterministic.
type Inline struct{}

func (Inline) Submit(ctx context.Context, t Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t != nil {
		t()
	}
	return nil
}

func (Inline) Stop() {}
