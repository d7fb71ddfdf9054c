package filekv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "portal.json")

	st, err := Open(path)
	require.NoError(t, err)
	_, ok, err := st.Get(ctx, "courses")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, "courses", `[{"id":"1","code":"CS201"}]`))
	require.NoError(t, st.Set(ctx, "currentUser", `{"id":"1"}`))
	require.NoError(t, st.Remove(ctx, "currentUser"))
	require.NoError(t, st.Remove(ctx, "missing"))
	require.NoError(t, st.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	val, ok, err := reopened.Get(ctx, "courses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1","code":"CS201"}]`, val)
	_, ok, err = reopened.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.False(t, ok)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	st, err := Open(empty)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), "k", "v"))

	null := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(null, []byte("null"), 0o644))
	st, err = Open(null)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), "k", "v"))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{oops"), 0o644))
	_, err = Open(broken)
	assert.Error(t, err)
}

func TestStorage_failedWriteKeepsState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "portal.json"))
	require.NoError(t, err)
	require.NoError(t, st.Set(ctx, "k", "v1"))

	// a directory where the file should be makes the rename fail
	st.path = dir
	assert.Error(t, st.Set(ctx, "k", "v2"))
	val, _, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", val)

	assert.Error(t, st.Remove(ctx, "k"))
	_, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
