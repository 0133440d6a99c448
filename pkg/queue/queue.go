// Package queue runs background jobs with retries.
//
// The back office uses it for blob deletes that failed after their record was
// already removed, so storage is eventually cleaned up:
//
//	queue.Register(func() queue.Job { return &jobs.PurgeBlob{} })
//	queue.StartWorkers(ctx, 2)
//
//	queue.Dispatch(ctx, &jobs.PurgeBlob{Key: "property-images/a.png"})
//
// A job that still fails after MaxRetry attempts is written to the
// failed_jobs table when a database was configured with UseDB.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/pkg/logger"
)

// Job is the interface every queued job must satisfy. Jobs travel as JSON,
// so only exported fields survive the trip.
type Job interface {
	// Handle executes the job. Return a non-nil error to signal failure.
	Handle(ctx context.Context) error
}

// Driver is the queue storage backend.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is available. A nil payload with a nil
	// error means the wait timed out.
	Pop(ctx context.Context) ([]byte, error)
}

// ErrUnregistered is returned when a payload names a job type that was never
// registered.
var ErrUnregistered = errors.New("queue: unregistered job type")

// ------------------- Manager -------------------

// Manager is the central queue hub.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job // type name → constructor
	db       *gorm.DB
	maxRetry int
	backoff  time.Duration
}

// New returns a manager on driver with three attempts per job.
func New(driver Driver) *Manager {
	return &Manager{
		driver:   driver,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  time.Second,
	}
}

var defaultManager = New(NewMemoryDriver())

// Default returns the process-wide manager used by the package functions.
func Default() *Manager { return defaultManager }

// SetDriver swaps the driver of the default manager (e.g. Redis).
func SetDriver(d Driver) { defaultManager.SetDriver(d) }

// SetMaxRetry sets how many attempts the default manager gives a job.
func SetMaxRetry(n int) { defaultManager.SetMaxRetry(n) }

// UseDB persists exhausted jobs of the default manager to db.
func UseDB(db *gorm.DB) { defaultManager.UseDB(db) }

// Register makes a job type known to the default manager.
func Register(factory func() Job) { defaultManager.Register(factory) }

// Dispatch pushes job onto the default queue.
func Dispatch(ctx context.Context, job Job) error { return defaultManager.Dispatch(ctx, job) }

// StartWorkers launches n workers on the default manager.
func StartWorkers(ctx context.Context, n int) { defaultManager.StartWorkers(ctx, n) }

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	m.driver = d
	m.mu.Unlock()
}

func (m *Manager) SetMaxRetry(n int) {
	if n < 1 {
		n = 1
	}
	m.mu.Lock()
	m.maxRetry = n
	m.mu.Unlock()
}

// SetBackoff sets the base delay between attempts. Attempt n waits n times
// the base.
func (m *Manager) SetBackoff(d time.Duration) {
	m.mu.Lock()
	m.backoff = d
	m.mu.Unlock()
}

func (m *Manager) UseDB(db *gorm.DB) {
	m.mu.Lock()
	m.db = db
	m.mu.Unlock()
}

// Register makes the job type built by factory available for decoding.
// Call it once at boot for every job type.
func (m *Manager) Register(factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[typeName(factory())] = factory
}

func typeName(job Job) string { return fmt.Sprintf("%T", job) }

// ------------------- Dispatch -------------------

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch encodes job and pushes it onto the queue.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	name := typeName(job)

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", name, err)
	}

	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(ctx, env)
}

// ------------------- Worker -------------------

// StartWorkers launches n concurrent workers that process jobs from the queue.
// The workers run until ctx is cancelled.
func (m *Manager) StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go m.work(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		if err := m.Process(ctx, raw); err != nil {
			logger.Error("queue: job dropped", "error", err)
		}
	}
}

// Process decodes one payload and runs it with retries. It returns an error
// only when the payload cannot be decoded; job failures are retried and then
// recorded.
func (m *Manager) Process(ctx context.Context, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("queue: bad envelope: %w", err)
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnregistered, env.Type)
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		return fmt.Errorf("queue: unmarshal %s: %w", env.Type, err)
	}

	m.runWithRetry(ctx, job, env.Type, env.Payload)
	return nil
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, name string, payload []byte) {
	m.mu.RLock()
	maxRetry, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			logger.Info("queue: job processed", "type", name, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed", "type", name, "attempt", attempt, "error", lastErr)
		if attempt < maxRetry && !sleep(ctx, time.Duration(attempt)*backoff) {
			break
		}
	}

	m.persistFailed(ctx, name, payload, lastErr, maxRetry)
	logger.Error("queue: job exhausted retries", "type", name, "error", lastErr)
}

// sleep waits for d or until ctx is done. It reports whether the full
// delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
