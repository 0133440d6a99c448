package testkit

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/auth"
	"github.com/staydesk/staydesk/pkg/cache"
	"github.com/staydesk/staydesk/pkg/database"
	"github.com/staydesk/staydesk/pkg/migration"
	"github.com/staydesk/staydesk/pkg/storage"

	_ "github.com/staydesk/staydesk/database/migrations"
)

// Password is the plain-text password of every user made by CreateUser.
const Password = "secret-password"

// NewDB opens a migrated SQLite database in a per-test temp directory. The
// in-process cache tier is flushed so cached rows from an earlier test never
// leak into this one.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "open sqlite")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, migration.New(db, io.Discard).Run(context.Background()), "migrate")

	cache.Flush()
	t.Cleanup(cache.Flush)
	return db
}

// NewDisk returns a local disk rooted in a temp directory.
func NewDisk(t *testing.T) *storage.LocalDisk {
	t.Helper()
	return storage.NewLocalDisk(t.TempDir(), "http://localhost/storage")
}

// CreateUser inserts a user with Password as its password.
func CreateUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	hash, err := auth.HashPassword(Password)
	require.NoError(t, err)

	u := models.User{Name: "Owner " + email, Email: email, Password: hash}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// Token issues a bearer token for u.
func Token(t *testing.T, u models.User) string {
	t.Helper()

	tok, err := auth.GenerateToken(u.ID, u.Email)
	require.NoError(t, err)
	return tok
}

// BearerHeaders returns request headers authenticating as u.
func BearerHeaders(t *testing.T, u models.User) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + Token(t, u)}
}

// CreateProperty inserts a bare property owned by owner.
func CreateProperty(t *testing.T, db *gorm.DB, owner models.User, name string) models.Property {
	t.Helper()

	p := models.Property{UserID: owner.ID, Name: name}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// SeedCategories inserts the named categories and returns them in order.
func SeedCategories(t *testing.T, db *gorm.DB, names ...string) []models.Category {
	t.Helper()

	out := make([]models.Category, 0, len(names))
	for _, n := range names {
		c := models.Category{Name: n}
		require.NoError(t, db.Create(&c).Error)
		out = append(out, c)
	}
	return out
}
