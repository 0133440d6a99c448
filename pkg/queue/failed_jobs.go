package queue

import (
	"context"
	"time"

	"github.com/staydesk/staydesk/pkg/logger"
)

// FailedJob is a job that exhausted its retries. The table is created by
// the failed_jobs migration.
type FailedJob struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJob) TableName() string { return "failed_jobs" }

func (m *Manager) persistFailed(ctx context.Context, name string, payload []byte, lastErr error, attempts int) {
	m.mu.RLock()
	db := m.db
	m.mu.RUnlock()
	if db == nil {
		return
	}

	row := FailedJob{
		JobType:  name,
		Payload:  string(payload),
		Attempts: attempts,
	}
	if lastErr != nil {
		row.Error = lastErr.Error()
	}

	// The worker context may already be cancelled at shutdown; the record is
	// still written.
	if err := db.WithContext(context.WithoutCancel(ctx)).Create(&row).Error; err != nil {
		logger.Error("queue: persist failed job", "type", name, "error", err)
	}
}

// Failed lists the recorded failures of the manager's database, newest first.
func (m *Manager) Failed(ctx context.Context) ([]FailedJob, error) {
	m.mu.RLock()
	db := m.db
	m.mu.RUnlock()
	if db == nil {
		return nil, nil
	}

	var rows []FailedJob
	err := db.WithContext(ctx).Order("id desc").Find(&rows).Error
	return rows, err
}
