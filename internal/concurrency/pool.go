// Package concurrency provides a bounded worker pool shared by the search
// and call-graph-build traversals.
package concurrency

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of concurrently running traversal tasks via a
// buffered channel acting as a cooperative slot semaphore.
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with the given capacity. A size <= 0 defaults to
// runtime.GOMAXPROCS(0).
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Size returns the pool's capacity.
func (p *Pool) Size() int {
	return cap(p.slots)
}

// Acquire blocks until a slot is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a previously acquired slot.
func (p *Pool) Release() {
	<-p.slots
}

// Run fans out fn over items, bounded by the pool's capacity, returning the
// first error encountered (if any) after all goroutines have exited. When
// ctx is done before every item has started, no further items start and
// the context's error is returned (unless a started fn already failed).
// Cancellation is cooperative: fn should check ctx between units of work.
func (p *Pool) Run(ctx context.Context, items int, fn func(ctx context.Context, index int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < items; i++ {
		i := i
		err := gctx.Err()
		if err == nil {
			err = p.Acquire(gctx)
		}
		if err != nil {
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}
		g.Go(func() error {
			defer p.Release()
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
