package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yasmngoncalves/PolarisApp/internal"
)

type snapshot struct {
	Water int `json:"water"`
}

func setupRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(mr.Addr(), ttl, internal.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestEntryKey(t *testing.T) {
	assert.Equal(t, "p:u1:v0:7:2024-07-17", EntryKey("p", "u1", 0, "7:2024-07-17"))
	assert.NotEqual(t, EntryKey("p", "u1", 1, "k"), EntryKey("p", "u1", 2, "k"))
}

func TestNoop(t *testing.T) {
	var c DashboardCache = Noop{}
	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, "u1", "k", 0, map[string]int{"a": 1}))
	var dst map[string]int
	hit, _, err := c.Get(ctx, "u1", "k", &dst)
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Invalidate(ctx, "u1"))
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache("127.0.0.1:1", time.Minute, internal.NopLogger())
	assert.Error(t, err)
}

func TestRedisCache_SetThenGet(t *testing.T) {
	c, _ := setupRedisCache(t, time.Minute)
	ctx := context.Background()

	var got snapshot
	hit, version, err := c.Get(ctx, "u1", "7:2024-07-17", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(0), version)

	require.NoError(t, c.Set(ctx, "u1", "7:2024-07-17", version, snapshot{Water: 750}))
	hit, _, err = c.Get(ctx, "u1", "7:2024-07-17", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 750, got.Water)

	hit, _, err = c.Get(ctx, "u2", "7:2024-07-17", &got)
	require.NoError(t, err)
	assert.False(t, hit, "entries are per user")
}

func TestRedisCache_InvalidateHidesSnapshots(t *testing.T) {
	c, _ := setupRedisCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "u1", "k", 0, snapshot{Water: 1}))

	require.NoError(t, c.Invalidate(ctx, "u1"))
	var got snapshot
	hit, version, err := c.Get(ctx, "u1", "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(1), version)
}

func TestRedisCache_SetUnderStaleVersionIsNeverServed(t *testing.T) {
	c, _ := setupRedisCache(t, time.Minute)
	ctx := context.Background()

	var got snapshot
	_, version, err := c.Get(ctx, "u1", "k", &got)
	require.NoError(t, err)

	// a write lands while the snapshot is being computed
	require.NoError(t, c.Invalidate(ctx, "u1"))
	require.NoError(t, c.Set(ctx, "u1", "k", version, snapshot{Water: 0}))

	hit, _, err := c.Get(ctx, "u1", "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_UndecodableEntryIsAMiss(t *testing.T) {
	c, mr := setupRedisCache(t, time.Minute)
	require.NoError(t, mr.Set(EntryKey("polaris:dashboard", "u1", 0, "k"), "{not json"))

	var got snapshot
	hit, _, err := c.Get(context.Background(), "u1", "k", &got)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	c, mr := setupRedisCache(t, 5*time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "u1", "k", 0, snapshot{Water: 1}))
	assert.Equal(t, 5*time.Minute, mr.TTL(EntryKey("polaris:dashboard", "u1", 0, "k")))

	mr.FastForward(5*time.Minute + time.Second)
	var got snapshot
	hit, _, err := c.Get(ctx, "u1", "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
