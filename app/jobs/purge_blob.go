// Package jobs holds the background jobs of the back office.
package jobs

import (
	"context"

	"github.com/staydesk/staydesk/pkg/metrics"
	"github.com/staydesk/staydesk/pkg/queue"
	"github.com/staydesk/staydesk/pkg/storage"
)

// PurgeBlob retries the delete of a blob whose record no longer needs it.
type PurgeBlob struct {
	Key      string `json:"key"`
	Entity   string `json:"entity"`
	EntityID uint   `json:"entity_id"`

	disk storage.Disk
}

func (j *PurgeBlob) Handle(ctx context.Context) error {
	err := j.disk.Delete(ctx, j.Key)
	metrics.ObserveBlob("delete", err)
	return err
}

// Register makes the jobs of this package runnable on m, deleting blobs
// from disk.
func Register(m *queue.Manager, disk storage.Disk) {
	m.Register(func() queue.Job { return &PurgeBlob{disk: disk} })
}
