package sqlkv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/storage/database"
)

func newSQLiteStorage(t *testing.T) *Storage {
	t.Helper()
	conf := core.NewTestConfig()
	conf.Storage.Engine = core.EngineSQLite
	conf.Storage.Path = filepath.Join(t.TempDir(), "portal.db")

	db, err := database.Open(conf)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	st := New(db)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newPostgresStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}
	db, err := database.OpenURL(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Ping(db, 5))
	require.NoError(t, database.Migrate(db))
	_, err = db.Exec("DELETE FROM kv_store")
	require.NoError(t, err)
	st := New(db)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func exerciseStorage(t *testing.T, st *Storage) {
	ctx := context.Background()

	_, ok, err := st.Get(ctx, "courses")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, "courses", `[{"id":"1"}]`))
	val, ok, err := st.Get(ctx, "courses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, val)

	// overwrite
	require.NoError(t, st.Set(ctx, "courses", `[]`))
	val, _, err = st.Get(ctx, "courses")
	require.NoError(t, err)
	assert.Equal(t, `[]`, val)

	// empty values are values
	require.NoError(t, st.Set(ctx, "currentUser", ""))
	val, ok, err = st.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, val)

	keys, err := st.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"courses", "currentUser"}, keys)

	require.NoError(t, st.Remove(ctx, "courses"))
	require.NoError(t, st.Remove(ctx, "courses"))
	_, ok, err = st.Get(ctx, "courses")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_sqlite(t *testing.T) {
	exerciseStorage(t, newSQLiteStorage(t))
}

func TestStorage_postgres(t *testing.T) {
	exerciseStorage(t, newPostgresStorage(t))
}

func TestStorage_closed(t *testing.T) {
	st := newSQLiteStorage(t)
	require.NoError(t, st.Close())
	_, _, err := st.Get(context.Background(), "courses")
	assert.Error(t, err)
	assert.Error(t, st.Set(context.Background(), "courses", "[]"))
}
