package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Rows  int    `json:"rows"`
	Total string `json:"total"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute), mr
}

func TestFetchJSONCachesUntilBump(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (report, error) {
		calls++
		return report{Rows: calls, Total: "150.00"}, nil
	}

	key, err := c.Key(ctx, "vehicle", "10")
	require.NoError(t, err)
	assert.Equal(t, "garage:reports:vehicle:10:v1", key)

	first, err := FetchJSON(ctx, c, key, loader)
	require.NoError(t, err)
	second, err := FetchJSON(ctx, c, key, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(key))

	require.NoError(t, c.Bump(ctx))
	key, err = c.Key(ctx, "vehicle", "10")
	require.NoError(t, err)
	assert.Equal(t, "garage:reports:vehicle:10:v2", key)

	third, err := FetchJSON(ctx, c, key, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, third.Rows)
}

func TestFetchJSONExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (int, error) { calls++; return calls, nil }

	key, err := c.Key(ctx, "dashboard")
	require.NoError(t, err)
	_, err = FetchJSON(ctx, c, key, loader)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	got, err := FetchJSON(ctx, c, key, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestFetchJSONLoaderError(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := FetchJSON(ctx, c, "k", func(context.Context) (report, error) { return report{}, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"), "failed loads are not cached")
}

func TestFetchJSONRedisFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("Get fails", func(t *testing.T) {
		c, mr := newTestCache(t)
		key, err := c.Key(ctx, "dashboard")
		require.NoError(t, err)
		mr.Close()

		calls := 0
		_, err = FetchJSON(ctx, c, key, func(context.Context) (int, error) { calls++; return 1, nil })
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Zero(t, calls)
	})

	t.Run("Set fails after load", func(t *testing.T) {
		c, mr := newTestCache(t)
		key, err := c.Key(ctx, "dashboard")
		require.NoError(t, err)

		got, err := FetchJSON(ctx, c, key, func(context.Context) (report, error) {
			mr.Close()
			return report{Rows: 3, Total: "42.00"}, nil
		})
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, report{Rows: 3, Total: "42.00"}, got)
	})

	t.Run("Loader errors are not cache errors", func(t *testing.T) {
		c, _ := newTestCache(t)
		boom := errors.New("boom")
		_, err := FetchJSON(ctx, c, "k", func(context.Context) (int, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrUnavailable)
	})
}

func TestNilCachePassesThrough(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	key, err := c.Key(ctx, "revenue", "paid")
	require.NoError(t, err)
	assert.Equal(t, "garage:reports:revenue:paid", key)

	got, err := FetchJSON(ctx, c, key, func(context.Context) (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
	assert.NoError(t, c.Bump(ctx))
	assert.NoError(t, c.Close())
}

func TestSubscribeReceivesBumps(t *testing.T) {
	c, _ := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan int64, 1)
	c.Subscribe(ctx, func(v int64) {
		select {
		case got <- v:
		default:
		}
	})

	// The subscription is established asynchronously; bump until it lands.
	deadline := time.After(2 * time.Second)
	for {
		require.NoError(t, c.Bump(ctx))
		select {
		case v := <-got:
			assert.Positive(t, v)
			return
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("no bump notification received")
		}
	}
}
