package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestFakeCache(t *testing.T) {
	c := &FakeCache{}
	require.Panics(t, func() { c.Get(context.Background(), "k") })
	require.Panics(t, func() { c.Set(context.Background(), "k", 1, 0) })
	require.Panics(t, func() { c.Del(context.Background(), "k") })
	require.NoError(t, c.Close())

	called := map[string]bool{}
	c.GetFn = func(ctx context.Context, key string) *redis.StringCmd {
		called["get"] = true
		return redis.NewStringResult("v", nil)
	}
	c.SetFn = func(ctx context.Context, key string, val any, exp time.Duration) *redis.StatusCmd {
		called["set"] = true
		return redis.NewStatusResult("OK", nil)
	}
	c.DelFn = func(ctx context.Context, keys ...string) *redis.IntCmd {
		called["del"] = true
		return redis.NewIntResult(1, nil)
	}
	c.CloseFn = func() error { called["close"] = true; return errors.New("close") }

	require.Equal(t, "v", c.Get(context.Background(), "k").Val())
	require.Equal(t, "OK", c.Set(context.Background(), "k", 1, 0).Val())
	require.Equal(t, int64(1), c.Del(context.Background(), "k").Val())
	require.EqualError(t, c.Close(), "close")
	for _, k := range []string{"get", "set", "del", "close"} {
		require.True(t, called[k], k)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryCache()
	require.ErrorIs(t, m.Get(ctx, "k").Err(), redis.Nil)
	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0).Err())
	require.NoError(t, m.Set(ctx, "s", "str", 0).Err())
	require.Error(t, m.Set(ctx, "n", 42, 0).Err())
	require.Equal(t, "v", m.Get(ctx, "k").Val())
	require.Equal(t, int64(1), m.Del(ctx, "k", "missing").Val())
	require.NoError(t, m.Close())
}

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestRemember(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		m := NewMemoryCache()
		loads := 0
		load := func(context.Context) ([]item, error) {
			loads++
			return []item{{1, "food"}}, nil
		}
		got, err := Remember(ctx, m, "tags", time.Minute, load)
		require.NoError(t, err)
		require.Equal(t, []item{{1, "food"}}, got)
		got, err = Remember(ctx, m, "tags", time.Minute, load)
		require.NoError(t, err)
		require.Equal(t, []item{{1, "food"}}, got)
		require.Equal(t, 1, loads)

		Invalidate(ctx, m, "tags")
		_, err = Remember(ctx, m, "tags", time.Minute, load)
		require.NoError(t, err)
		require.Equal(t, 2, loads)
	})

	t.Run("load error is returned and nothing cached", func(t *testing.T) {
		m := NewMemoryCache()
		_, err := Remember(ctx, m, "tags", time.Minute, func(context.Context) ([]item, error) {
			return nil, errors.New("db down")
		})
		require.EqualError(t, err, "db down")
		require.Empty(t, m.Data)
	})

	t.Run("corrupt entry is reloaded", func(t *testing.T) {
		m := NewMemoryCache()
		m.Data["tags"] = "{not json"
		got, err := Remember(ctx, m, "tags", time.Minute, func(context.Context) ([]item, error) {
			return []item{{2, "books"}}, nil
		})
		require.NoError(t, err)
		require.Equal(t, "books", got[0].Name)
		require.JSONEq(t, `[{"id":2,"name":"books"}]`, m.Data["tags"])
	})

	t.Run("cache failures fall back to load", func(t *testing.T) {
		var ttl time.Duration
		c := &FakeCache{
			GetFn: func(context.Context, string) *redis.StringCmd {
				return redis.NewStringResult("", errors.New("conn refused"))
			},
			SetFn: func(_ context.Context, _ string, _ any, exp time.Duration) *redis.StatusCmd {
				ttl = exp
				return redis.NewStatusResult("", errors.New("conn refused"))
			},
			DelFn: func(context.Context, ...string) *redis.IntCmd {
				return redis.NewIntResult(0, errors.New("conn refused"))
			},
		}
		got, err := Remember(ctx, c, "tags", 30*time.Second, func(context.Context) ([]item, error) {
			return []item{{3, "misc"}}, nil
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, 30*time.Second, ttl)
		Invalidate(ctx, c, "tags")
	})
}
