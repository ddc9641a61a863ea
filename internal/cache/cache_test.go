package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tartil/internal/store"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func backends(t *testing.T) map[string]func(now func() time.Time) Cache {
	t.Helper()
	return map[string]func(now func() time.Time) Cache{
		"memory": func(now func() time.Time) Cache {
			return NewMemory().WithClock(now)
		},
		"sqlite": func(now func() time.Time) Cache {
			s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return NewSQLite(s.DB()).WithClock(now)
		},
	}
}

func TestCache_Backends(t *testing.T) {
	for name, mk := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clk := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
			c := mk(clk.now)

			_, ok, err := c.Get(ctx, "chapters:en")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, c.Set(ctx, "chapters:en", []byte("a"), time.Hour))
			require.NoError(t, c.Set(ctx, "verses:1:p1", []byte("b"), time.Minute))
			require.NoError(t, c.Set(ctx, "verses:1:p2", []byte("c"), time.Hour))
			require.NoError(t, c.Set(ctx, "verses_x", []byte("d"), time.Hour))

			v, ok, err := c.Get(ctx, "chapters:en")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, []byte("a"), v)

			clk.t = clk.t.Add(time.Minute)
			_, ok, _ = c.Get(ctx, "verses:1:p1")
			assert.False(t, ok, "entry expires at its ttl")

			require.NoError(t, c.InvalidatePrefix(ctx, "verses:"))
			_, ok, _ = c.Get(ctx, "verses:1:p2")
			assert.False(t, ok)
			_, ok, _ = c.Get(ctx, "verses_x")
			assert.True(t, ok, "prefix match is literal")

			require.NoError(t, c.Invalidate(ctx, "chapters:en"))
			_, ok, _ = c.Get(ctx, "chapters:en")
			assert.False(t, ok)
		})
	}
}

func TestMemory_SetCopiesValue(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set(context.Background(), "k", buf, time.Hour))
	buf[0] = 'x'

	v, _, _ := m.Get(context.Background(), "k")
	assert.Equal(t, "abc", string(v))
}

func TestSQLite_Purge(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer s.Close()

	clk := &clock{t: time.Unix(1000, 0)}
	c := NewSQLite(s.DB()).WithClock(clk.now)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Hour))

	clk.t = clk.t.Add(time.Minute)
	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestJSONHelpers(t *testing.T) {
	type chapter struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, SetJSON(ctx, m, "ch:1", chapter{1, "Al-Fatihah"}, time.Hour))
	got, ok, err := GetJSON[chapter](ctx, m, "ch:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Al-Fatihah", got.Name)

	require.NoError(t, m.Set(ctx, "ch:2", []byte("{not json"), time.Hour))
	_, ok, err = GetJSON[chapter](ctx, m, "ch:2")
	require.NoError(t, err)
	assert.False(t, ok, "corrupt entry is a miss")
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	calls := 0
	load := func(context.Context) ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	for range 3 {
		v, err := Fetch(ctx, m, "ids", time.Hour, load)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, v)
	}
	assert.Equal(t, 1, calls)

	boom := errors.New("upstream down")
	_, err := Fetch(ctx, m, "other", time.Hour, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	_, ok, _ := m.Get(ctx, "other")
	assert.False(t, ok, "errors are not cached")

	v, err := Fetch[int](ctx, nil, "nil-cache", time.Hour, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
