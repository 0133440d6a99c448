//go:build integration

package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/repositories"
	"github.com/staydesk/staydesk/pkg/cache"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/migration"
	"github.com/staydesk/staydesk/pkg/testkit"
	"github.com/staydesk/staydesk/pkg/upload"
)

// postgresDB starts a throwaway Postgres container and returns a migrated
// connection to it.
func postgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "docker is required for integration tests")
	pool.MaxWait = 2 * time.Minute

	res, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=staydesk",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=staydesk",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	require.NoError(t, res.Expire(300))
	t.Cleanup(func() { _ = pool.Purge(res) })

	dsn := fmt.Sprintf("host=localhost port=%s user=staydesk password=secret dbname=staydesk sslmode=disable",
		res.GetPort("5432/tcp"))

	var db *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		var err error
		if db, err = database.Open("postgres", dsn); err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, migration.New(db, io.Discard).Run(context.Background()))
	cache.Flush()
	return db
}

func TestPostgresMenuLifecycle(t *testing.T) {
	db := postgresDB(t)
	disk := testkit.NewDisk(t)
	ctx := context.Background()

	owner := testkit.CreateUser(t, db, "owner@staydesk.test")
	p := testkit.CreateProperty(t, db, owner, "Harbour")
	cats := testkit.SeedCategories(t, db, "Dessert", "Beverage", "Soup")

	menu := NewMenuItemService(db, disk)
	img := upload.FromBytes("tart.png", testkit.PNG())
	_, err := img.Check(upload.ImageMaxKB)
	require.NoError(t, err)

	tart, err := menu.Create(ctx, owner.ID, MenuItemInput{
		PropertyID: p.ID, Name: "Lemon Tart", Price: 6.5,
		CategoryIDs: []uint{cats[0].ID, cats[1].ID}, Image: &img,
	})
	require.NoError(t, err)
	_, err = menu.Create(ctx, owner.ID, MenuItemInput{PropertyID: p.ID, Name: "100% Juice", Price: 3})
	require.NoError(t, err)

	tart, err = menu.SyncCategories(ctx, owner.ID, tart.ID, []uint{cats[1].ID, cats[2].ID})
	require.NoError(t, err)
	require.Len(t, tart.Categories, 2)
	assert.Equal(t, "Beverage", tart.Categories[0].Name)

	idx, err := menu.Index(ctx, owner.ID, repositories.MenuFilter{PropertyID: p.ID, Search: "LEMON"})
	require.NoError(t, err)
	require.Len(t, idx.Items, 1)
	assert.Equal(t, "Lemon Tart", idx.Items[0].Name)

	idx, err = menu.Index(ctx, owner.ID, repositories.MenuFilter{PropertyID: p.ID, Search: "0%"})
	require.NoError(t, err)
	require.Len(t, idx.Items, 1)
	assert.Equal(t, "100% Juice", idx.Items[0].Name)

	require.NoError(t, NewPropertyService(db, disk).Delete(ctx, owner.ID, p.ID))

	var left int64
	require.NoError(t, db.Model(&models.MenuItemCategory{}).Count(&left).Error)
	assert.Zero(t, left)
	ok, err := disk.Exists(ctx, *tart.Image)
	require.NoError(t, err)
	assert.False(t, ok)
}
