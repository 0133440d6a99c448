package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/staydesk/staydesk/config"
	"github.com/staydesk/staydesk/pkg/logger"
)

// ─── Manager ──────────────────────────────────────────────────────────────────

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the storage manager.
// Call once at application startup (see internal/server).
func Connect(ctx context.Context) {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.StorageDefault()

	// Always boot local disk.
	disks["local"] = NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())

	// Boot S3 disk only if bucket is configured.
	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk(ctx)
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK, falling back to the
// local disk when that one is not configured.
func Default() Disk {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()

	if d, err := Use(name); err == nil {
		return d
	}
	if d, err := Use("local"); err == nil {
		return d
	}
	return NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
}

// ─── Uploads ──────────────────────────────────────────────────────────────────

// HashName returns a collision-free object name inside directory, keeping
// ext as the file extension.
func HashName(directory, ext string) string {
	name := uuid.NewString()
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		name += "." + ext
	}
	return path.Join(strings.Trim(directory, "/"), name)
}
