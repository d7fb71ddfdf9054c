package rediskv

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	prefix := "deptportal-test-" + time.Now().Format("150405.000000") + ":"
	client := NewClient(addr)
	st := New(client, prefix)
	t.Cleanup(func() { _ = st.Close() })
	require.True(t, st.Healthy(ctx))

	_, ok, err := st.Get(ctx, "courses")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, "courses", `[]`))
	val, ok, err := st.Get(ctx, "courses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, val)

	raw, err := client.Get(ctx, prefix+"courses").Result()
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)

	require.NoError(t, st.Remove(ctx, "courses"))
	require.NoError(t, st.Remove(ctx, "courses"))
	_, ok, err = st.Get(ctx, "courses")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_unreachable(t *testing.T) {
	st := New(NewClient("127.0.0.1:1"), "x:")
	defer st.Close()
	ctx := context.Background()

	assert.False(t, st.Healthy(ctx))
	_, _, err := st.Get(ctx, "courses")
	assert.Error(t, err)
	assert.Error(t, st.Set(ctx, "courses", "[]"))
}
