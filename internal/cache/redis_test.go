package cache

import (
	"context"
	"testing"
	"time"

	"github.com/blogworks/postapi/internal/config"
	"github.com/blogworks/postapi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSetDel(t *testing.T) {
	rc := Wrap(testutil.NewRedis(t))
	ctx := context.Background()

	_, err := rc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, rc.SetEx(ctx, "greeting", "hello", time.Minute))
	val, err := rc.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", val)

	ttl, err := rc.TTL(ctx, "greeting")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, rc.Del(ctx, "greeting"))
	_, err = rc.Get(ctx, "greeting")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestIncrWindow(t *testing.T) {
	rc := Wrap(testutil.NewRedis(t))
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := rc.IncrWindow(ctx, "hits", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	ttl, err := rc.TTL(ctx, "hits")
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestNewRedisClientUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, config.RedisConfig{Host: "127.0.0.1", Port: "1"})
	assert.Error(t, err)
}

func TestCloseNil(t *testing.T) {
	var rc *RedisClient
	assert.NoError(t, rc.Close())
}
