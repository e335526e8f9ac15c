package migrations_test

import (
	"testing"

	"github.com/curaious/companion/internal/migrations"
	"github.com/curaious/companion/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator_DownAndUp(t *testing.T) {
	db := testutil.Postgres(t)

	mg, err := migrations.NewMigrator(db)
	require.NoError(t, err)
	for _, s := range mg.Status() {
		assert.True(t, s.Done, s.Version)
	}

	require.NoError(t, mg.Down(1))

	var exists bool
	require.NoError(t, db.Get(&exists, `SELECT to_regclass('public.companions') IS NOT NULL`))
	assert.False(t, exists)

	states := mg.Status()
	assert.True(t, states[0].Done)
	assert.False(t, states[len(states)-1].Done)

	require.NoError(t, mg.Up(0))

	require.NoError(t, db.Get(&exists, `SELECT to_regclass('public.companions') IS NOT NULL`))
	assert.True(t, exists)

	var recorded int
	require.NoError(t, db.Get(&recorded, `SELECT count(*) FROM metadata.schema_migrations`))
	assert.Equal(t, len(states), recorded)
}
