package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheme-assist/backend/internal/bookmarks"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c, err := NewClient(mr.Host(), port, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestClient_GetSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	_, ok, err := c.Get(ctx, "owner", bookmarks.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "owner", bookmarks.StorageKey, []byte(`[]`)))
	require.NoError(t, c.Set(ctx, "owner", bookmarks.StorageKey, []byte(`[{"id":9}]`)))

	data, ok, err := c.Get(ctx, "owner", bookmarks.StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":9}]`, string(data))

	require.NoError(t, c.Delete(ctx, "owner", bookmarks.StorageKey))
	_, ok, err = c.Get(ctx, "owner", bookmarks.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_KeysAreHashed(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)

	require.NoError(t, c.Set(ctx, "alice@example.com", "k", []byte("v")))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, ownerKey("alice@example.com"), keys[0])
	assert.NotContains(t, keys[0], "alice")
}

func TestClient_TTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)
	c.WithTTL(time.Hour)

	require.NoError(t, c.Set(ctx, "owner", "k", []byte("v")))
	assert.Equal(t, time.Hour, mr.TTL(ownerKey("owner")))

	mr.FastForward(2 * time.Hour)
	_, ok, err := c.Get(ctx, "owner", "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestClient(t)
	mr.Close()

	_, _, err := c.Get(ctx, "owner", "k")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "owner", "k", []byte("v")))
	assert.Error(t, c.Ping(ctx))
}

func TestClient_BacksBookmarkStore(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	s := bookmarks.Open(ctx, c, "client-2")
	_, err := s.Add(ctx, bookmarks.Item{ID: 2, Name: "Ayushman Bharat"})
	require.NoError(t, err)

	assert.Equal(t, s.List(), bookmarks.Open(ctx, c, "client-2").List())
}
