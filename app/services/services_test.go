package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/queue"
	"github.com/staydesk/staydesk/pkg/storage"
	"github.com/staydesk/staydesk/pkg/testkit"
	"github.com/staydesk/staydesk/pkg/upload"
)

func ptr[T any](v T) *T { return &v }

// flakyDisk is a local disk whose writes and deletes go through testify
// expectations first, so single blobs can be made to fail.
type flakyDisk struct {
	*storage.LocalDisk
	mock.Mock
}

func newFlakyDisk(t *testing.T) *flakyDisk {
	return &flakyDisk{LocalDisk: testkit.NewDisk(t)}
}

func (d *flakyDisk) PutStream(ctx context.Context, path string, r io.Reader) error {
	if err := d.Called(path).Error(0); err != nil {
		return err
	}
	return d.LocalDisk.PutStream(ctx, path, r)
}

func (d *flakyDisk) Delete(ctx context.Context, path string) error {
	if err := d.Called(path).Error(0); err != nil {
		return err
	}
	return d.LocalDisk.Delete(ctx, path)
}

func inDir(dir string) interface{} {
	return mock.MatchedBy(func(p string) bool { return strings.HasPrefix(p, dir+"/") })
}

type fixture struct {
	db    *gorm.DB
	disk  storage.Disk
	root  string
	owner models.User
	other models.User

	// purges receives the blob deletes queued for retry.
	purges *queue.MemoryDriver
}

func setup(t *testing.T) fixture {
	t.Helper()
	disk := testkit.NewDisk(t)
	return setupWith(t, disk, disk.Root())
}

func setupWith(t *testing.T, disk storage.Disk, root string) fixture {
	t.Helper()
	db := testkit.NewDB(t)

	purges := queue.NewMemoryDriver()
	queue.SetDriver(purges)
	t.Cleanup(func() { queue.SetDriver(queue.NewMemoryDriver()) })

	return fixture{
		db:     db,
		disk:   disk,
		root:   root,
		owner:  testkit.CreateUser(t, db, "owner@staydesk.test"),
		other:  testkit.CreateUser(t, db, "other@staydesk.test"),
		purges: purges,
	}
}

// blobs lists the files stored under dir.
func (f fixture) blobs(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(f.root, dir, "*"))
	require.NoError(t, err)
	return matches
}

func (f fixture) exists(t *testing.T, key string) bool {
	t.Helper()
	ok, err := f.disk.Exists(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func (f fixture) count(t *testing.T, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func image(t *testing.T, name string) upload.File {
	t.Helper()
	f := upload.FromBytes(name, testkit.PNG())
	msg, err := f.Check(upload.ImageMaxKB)
	require.NoError(t, err)
	require.Empty(t, msg)
	return f
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func TestImageDiffMessage(t *testing.T) {
	assert.Equal(t, "Uploaded 2 image(s) and deleted 1 image(s).", ImageDiff{Added: 2, Deleted: 1}.Message())
	assert.Equal(t, "Uploaded 1 image(s).", ImageDiff{Added: 1}.Message())
	assert.Equal(t, "Deleted 3 image(s).", ImageDiff{Deleted: 3}.Message())
	assert.Equal(t, "No image changes.", ImageDiff{}.Message())
}

func TestStorageErrorAttrs(t *testing.T) {
	err := &StorageError{Op: "delete", Entity: "menu_item", EntityID: 4, UserID: 2, Key: "restaurant-menu/a.png", Err: io.ErrUnexpectedEOF}

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	attrs := errorAttrs(err)
	assert.Contains(t, attrs, "restaurant-menu/a.png")
	assert.Contains(t, attrs, uint(4))
	assert.Equal(t, []any{"error", io.EOF}, errorAttrs(io.EOF))
}
