package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/staydesk/staydesk/app/jobs"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/logger"
	"github.com/staydesk/staydesk/pkg/metrics"
	"github.com/staydesk/staydesk/pkg/queue"
	"github.com/staydesk/staydesk/pkg/storage"
	"github.com/staydesk/staydesk/pkg/upload"
	"github.com/staydesk/staydesk/pkg/workerpool"
)

// Blob directories on the store.
const (
	PropertyImagesDir = "property-images"
	MenuImagesDir     = "restaurant-menu"
	GuestImagesDir    = "tv-managers"
)

const removeWorkers = 4

// ImageDiff counts the result of a multi-image replacement.
type ImageDiff struct {
	Added   int `json:"uploaded"`
	Deleted int `json:"deleted"`
}

// Message is the flash shown after an image replacement.
func (d ImageDiff) Message() string {
	switch {
	case d.Added > 0 && d.Deleted > 0:
		return fmt.Sprintf("Uploaded %d image(s) and deleted %d image(s).", d.Added, d.Deleted)
	case d.Added > 0:
		return fmt.Sprintf("Uploaded %d image(s).", d.Added)
	case d.Deleted > 0:
		return fmt.Sprintf("Deleted %d image(s).", d.Deleted)
	default:
		return "No image changes."
	}
}

// owner identifies the record a blob belongs to, for errors and logs.
type owner struct {
	entity   string
	entityID uint
	userID   uint
}

// dispatcher queues background jobs.
type dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

// media writes blobs ahead of a transaction and removes them again when the
// transaction fails. Deletes that fail are queued for a later retry.
type media struct {
	disk  storage.Disk
	tx    database.Transactor
	queue dispatcher
}

func newMedia(disk storage.Disk, tx database.Transactor) media {
	return media{disk: disk, tx: tx, queue: queue.Default()}
}

// store writes every file under dir. If one fails, the blobs already written
// are removed and a *StorageError is returned.
func (m media) store(ctx context.Context, o owner, dir string, files []upload.File) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, f := range files {
		key, err := m.put(ctx, dir, f)
		metrics.ObserveBlob("put", err)
		if err != nil {
			m.compensate(ctx, o, keys)
			return nil, &StorageError{Op: "put", Entity: o.entity, EntityID: o.entityID, UserID: o.userID, Key: key, Err: err}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (m media) put(ctx context.Context, dir string, f upload.File) (string, error) {
	key := storage.HashName(dir, f.Ext())
	rc, err := f.Open()
	if err != nil {
		return key, err
	}
	defer rc.Close()
	return key, m.disk.PutStream(ctx, key, rc)
}

// remove deletes one blob. A blob that is already gone is not an error.
func (m media) remove(ctx context.Context, o owner, key string) error {
	err := m.disk.Delete(ctx, key)
	metrics.ObserveBlob("delete", err)
	if err != nil {
		return &StorageError{Op: "delete", Entity: o.entity, EntityID: o.entityID, UserID: o.userID, Key: key, Err: err}
	}
	return nil
}

// blob is one stored file and the record it belongs to.
type blob struct {
	owner owner
	key   string
}

func blobsOf(o owner, keys ...string) []blob {
	out := make([]blob, len(keys))
	for i, k := range keys {
		out[i] = blob{owner: o, key: k}
	}
	return out
}

// removeAll attempts every delete on a small worker pool, logging failures,
// and returns how many blobs could not be removed.
func (m media) removeAll(ctx context.Context, blobs []blob) int {
	var failed atomic.Int64
	err := workerpool.Each(ctx, removeWorkers, blobs, func(b blob) {
		if err := m.remove(ctx, b.owner, b.key); err != nil {
			failed.Add(1)
			logger.WithCtx(ctx).Error("blob delete failed", errorAttrs(err)...)
			m.retry(ctx, b)
		}
	})
	if err != nil {
		logger.WithCtx(ctx).Warn("blob cleanup interrupted", "error", err)
	}
	return int(failed.Load())
}

// compensate removes blobs written for a write that did not commit.
func (m media) compensate(ctx context.Context, o owner, keys []string) {
	for _, key := range keys {
		err := m.disk.Delete(ctx, key)
		metrics.ObserveBlob("delete", err)
		if err != nil {
			logger.WithCtx(ctx).Warn("blob compensation failed",
				"entity", o.entity, "entity_id", o.entityID, "user_id", o.userID, "blob", key, "error", err)
			m.retry(ctx, blob{owner: o, key: key})
			continue
		}
		metrics.BlobCompensations.Inc()
	}
}

// retry queues a purge of b.
func (m media) retry(ctx context.Context, b blob) {
	if m.queue == nil {
		return
	}
	job := &jobs.PurgeBlob{Key: b.key, Entity: b.owner.entity, EntityID: b.owner.entityID}
	if err := m.queue.Dispatch(ctx, job); err != nil {
		logger.WithCtx(ctx).Warn("blob purge not queued", "blob", b.key, "error", err)
	}
}

// replace stores file, runs save with the new key inside a transaction and
// then deletes the previous blob. A failed save compensates the new blob; a
// failed delete of the previous blob is only logged.
func (m media) replace(ctx context.Context, o owner, dir string, file upload.File, previous *string, save func(ctx context.Context, key string) error) (string, error) {
	keys, err := m.store(ctx, o, dir, []upload.File{file})
	if err != nil {
		return "", err
	}
	if err := m.tx.Transaction(ctx, func(ctx context.Context) error { return save(ctx, keys[0]) }); err != nil {
		m.compensate(ctx, o, keys)
		return "", err
	}
	if previous != nil && *previous != "" && *previous != keys[0] {
		m.removeAll(ctx, blobsOf(o, *previous))
	}
	return keys[0], nil
}
