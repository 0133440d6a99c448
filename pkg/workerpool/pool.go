// Package workerpool provides a bounded goroutine pool with backpressure.
//
// A Pool limits the number of goroutines that can run concurrently. Submit
// never blocks and returns ErrPoolFull when every worker is busy; SubmitWait
// blocks until a slot frees up or the context ends.
//
//	pool := workerpool.New(4)
//	for _, key := range keys {
//	    _ = pool.SubmitWait(ctx, func() { _ = disk.Delete(ctx, key) })
//	}
//	pool.Shutdown() // waits for the submitted tasks
//
// Each wraps that pattern for a slice.
package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/staydesk/staydesk/pkg/logger"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// New creates a Pool with the given number of workers (at least one).
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{tasks: make(chan func(), size)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait enqueues task, blocking until a slot is free. It returns
// ctx.Err() when ctx ends first.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for the queued ones to finish.
// It is safe to call multiple times.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun executes task; a panic is logged and does not kill the worker.
func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", r)
		}
	}()
	task()
}

// Each calls fn for every item on at most size goroutines and returns once
// all submitted calls have finished. Items not yet submitted when ctx ends
// are skipped and ctx.Err() is returned.
func Each[T any](ctx context.Context, size int, items []T, fn func(T)) error {
	if len(items) == 0 {
		return nil
	}
	p := New(min(size, len(items)))
	defer p.Shutdown()

	for _, item := range items {
		item := item
		if err := p.SubmitWait(ctx, func() { fn(item) }); err != nil {
			return err
		}
	}
	return nil
}
