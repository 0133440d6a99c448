package migrations

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/migration"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "schema.db") + "?_foreign_keys=on"
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestMigrateCreatesEveryTableOnSQLite(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, migration.New(db, io.Discard).Run(context.Background()))

	for _, name := range []string{
		"users",
		"properties",
		"property_images",
		"restaurant_categories",
		"restaurant_menu_items",
		"restaurant_category_menu_items",
		"tv_managers",
		"failed_jobs",
	} {
		assert.True(t, db.Migrator().HasTable(name), name)
	}

	lat, lng := 51.5072178, -0.1275862
	owner := models.User{Name: "Owner", Email: "owner@example.com", Password: "x"}
	require.NoError(t, db.Create(&owner).Error)
	p := models.Property{UserID: owner.ID, Name: "Harbour", Latitude: &lat, Longitude: &lng}
	require.NoError(t, db.Create(&p).Error)

	var got models.Property
	require.NoError(t, db.First(&got, p.ID).Error)
	require.NotNil(t, got.Latitude)
	assert.InDelta(t, lat, *got.Latitude, 1e-7)
}

// A dependent table is created without re-reading the decimal columns of
// the table it references.
func TestTableUpLeavesReferencedTablesAlone(t *testing.T) {
	db := openSQLite(t)

	steps := []*table{
		{model: &models.User{}, name: "users"},
		{model: &models.Property{}, name: "properties"},
		{model: &models.PropertyImage{}, name: "property_images"},
		{model: &models.Category{}, name: "restaurant_categories"},
		{model: &models.MenuItem{}, name: "restaurant_menu_items"},
		{model: &models.MenuItemCategory{}, name: "restaurant_category_menu_items"},
		{model: &models.GuestRecord{}, name: "tv_managers"},
	}
	for _, s := range steps {
		require.NoError(t, s.Up(db), s.name)
	}

	for i := len(steps) - 1; i >= 0; i-- {
		require.NoError(t, steps[i].Down(db), steps[i].name)
		assert.False(t, db.Migrator().HasTable(steps[i].name))
	}
}
