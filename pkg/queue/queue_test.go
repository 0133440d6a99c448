package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handled atomic.Int32

type countJob struct {
	Fail bool `json:"fail"`
}

func (j *countJob) Handle(context.Context) error {
	handled.Add(1)
	if j.Fail {
		return errors.New("always fails")
	}
	return nil
}

func TestWorkersProcessDispatchedJobs(t *testing.T) {
	handled.Store(0)
	m := New(NewMemoryDriver())
	m.Register(func() Job { return &countJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartWorkers(ctx, 2)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Dispatch(ctx, &countJob{}))
	}
	assert.Eventually(t, func() bool { return handled.Load() == 5 }, time.Second, 5*time.Millisecond)
}

func TestProcessRetries(t *testing.T) {
	handled.Store(0)
	driver := NewMemoryDriver()
	m := New(driver)
	m.SetMaxRetry(3)
	m.SetBackoff(0)
	m.Register(func() Job { return &countJob{} })

	ctx := context.Background()
	require.NoError(t, m.Dispatch(ctx, &countJob{Fail: true}))
	raw, err := driver.Pop(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Process(ctx, raw))
	assert.Equal(t, int32(3), handled.Load())
}

func TestProcessRejectsUnknownTypes(t *testing.T) {
	m := New(NewMemoryDriver())

	err := m.Process(context.Background(), []byte(`{"type":"*jobs.Nope","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnregistered)

	err = m.Process(context.Background(), []byte(`not json`))
	assert.ErrorContains(t, err, "bad envelope")
}

func TestMemoryDriverIsBounded(t *testing.T) {
	d := &MemoryDriver{ch: make(chan []byte, 1)}
	ctx := context.Background()

	require.NoError(t, d.Push(ctx, []byte("a")))
	assert.ErrorIs(t, d.Push(ctx, []byte("b")), ErrFull)
	assert.Equal(t, 1, d.Len())
}

func TestFailedWithoutDatabase(t *testing.T) {
	rows, err := New(NewMemoryDriver()).Failed(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, rows)
}
