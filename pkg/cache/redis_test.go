package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := NewRedisClient(&Config{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, srv
}

func TestLockIsExclusiveAndOwnerReleased(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	ok, err := c.AcquireLock(ctx, "lock:arrival:1", "owner-a", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.AcquireLock(ctx, "lock:arrival:1", "owner-b", time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	// Someone else's token must not release the lock.
	require.NoError(t, c.ReleaseLock(ctx, "lock:arrival:1", "owner-b"))
	ok, _ = c.AcquireLock(ctx, "lock:arrival:1", "owner-b", time.Second)
	assert.False(t, ok)

	require.NoError(t, c.ReleaseLock(ctx, "lock:arrival:1", "owner-a"))
	ok, _ = c.AcquireLock(ctx, "lock:arrival:1", "owner-b", time.Second)
	assert.True(t, ok)
}

func TestJSONRoundTripAndPatternDelete(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	var out map[string]int
	hit, err := c.GetJSON(ctx, "products:list:a", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetJSON(ctx, "products:list:a", map[string]int{"count": 2}, time.Minute))
	require.NoError(t, c.SetJSON(ctx, "products:list:b", map[string]int{"count": 3}, time.Minute))
	require.NoError(t, c.SetJSON(ctx, "other", 1, time.Minute))

	hit, err = c.GetJSON(ctx, "products:list:a", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2, out["count"])

	n, err := c.DeletePattern(ctx, "products:list:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.ErrorIs(t, c.Client.Get(ctx, "products:list:b").Err(), redis.Nil)
	assert.NoError(t, c.Client.Get(ctx, "other").Err())
}
