package migration_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staydesk/staydesk/pkg/migration"
	"github.com/staydesk/staydesk/pkg/testkit"
)

func TestRunIsIdempotent(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()

	var out bytes.Buffer
	r := migration.New(db, &out)
	require.NoError(t, r.Run(ctx))
	assert.Contains(t, out.String(), "Nothing to migrate.")

	pending, err := r.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRollbackAndStatus(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()

	var out bytes.Buffer
	r := migration.New(db, &out)

	require.NoError(t, r.Status(ctx))
	assert.Regexp(t, `20250101000006_create_tv_managers_table\s+Ran\s+1`, out.String())

	require.NoError(t, r.Rollback(ctx))
	assert.False(t, db.Migrator().HasTable("tv_managers"))
	assert.False(t, db.Migrator().HasTable("properties"))
	assert.False(t, db.Migrator().HasTable("failed_jobs"))

	pending, err := r.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 8)
	assert.Equal(t, "20250101000000_create_users_table", pending[0])

	out.Reset()
	require.NoError(t, r.Rollback(ctx))
	assert.Contains(t, out.String(), "Nothing to roll back.")

	require.NoError(t, r.Run(ctx))
	assert.True(t, db.Migrator().HasTable("tv_managers"))
}
