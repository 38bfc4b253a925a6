package bot

import (
	"context"
	"testing"
	"time"

	"github.com/blogworks/postapi/internal/cache"
	"github.com/blogworks/postapi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCursorStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCursorStore()

	page, err := store.Get(ctx, 1, KindMovies)
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	require.NoError(t, store.Set(ctx, 1, KindMovies, 4))
	require.NoError(t, store.Set(ctx, 1, KindCartoons, 0))

	page, _ = store.Get(ctx, 1, KindMovies)
	assert.Equal(t, 4, page)
	page, _ = store.Get(ctx, 1, KindCartoons)
	assert.Equal(t, 1, page)
	page, _ = store.Get(ctx, 2, KindMovies)
	assert.Equal(t, 1, page)
}

func TestRedisCursorStore(t *testing.T) {
	client := cache.Wrap(testutil.NewRedis(t))
	ctx := context.Background()
	store := NewRedisCursorStore(client, time.Minute)

	page, err := store.Get(ctx, 42, KindMovies)
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	require.NoError(t, store.Set(ctx, 42, KindMovies, 3))
	page, err = store.Get(ctx, 42, KindMovies)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	page, err = store.Get(ctx, 42, KindCartoons)
	require.NoError(t, err)
	assert.Equal(t, 1, page)

	ttl, err := client.TTL(ctx, "bot:cursor:movie:42")
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestRedisCursorStoreDefaultTTL(t *testing.T) {
	store := NewRedisCursorStore(nil, 0)
	assert.Equal(t, DefaultCursorTTL, store.ttl)
}
