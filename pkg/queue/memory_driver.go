package queue

import (
	"context"
	"errors"
)

// ErrFull is returned by MemoryDriver.Push when the buffer is full.
var ErrFull = errors.New("queue/memory: full")

// MemoryDriver is an in-process, channel-backed queue driver.
// It is not durable across restarts.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver creates an in-memory queue with a buffer of 1000 jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, 1000)}
}

// Push never blocks; a full buffer drops the payload with ErrFull.
func (d *MemoryDriver) Push(_ context.Context, payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	default:
		return ErrFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}

// Len is the number of buffered payloads.
func (d *MemoryDriver) Len() int { return len(d.ch) }
