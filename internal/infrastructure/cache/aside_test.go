package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakyStore struct {
	*MemoryStore
	failGet    bool
	failSet    bool
	failDelete bool
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.failGet {
		return nil, errors.New("connection refused")
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.failSet {
		return errors.New("connection refused")
	}
	return s.MemoryStore.Set(ctx, key, value, ttl)
}

func (s *flakyStore) Delete(ctx context.Context, keys ...string) error {
	if s.failDelete {
		return errors.New("connection refused")
	}
	return s.MemoryStore.Delete(ctx, keys...)
}

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestGetOrLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("miss loads and populates", func(t *testing.T) {
		store := NewMemoryStore()
		aside := NewAside(store, "student-service", time.Minute, zap.NewNop())

		loads := 0
		load := func(ctx context.Context) (record, error) {
			loads++
			return record{ID: 7, Name: "Ada"}, nil
		}

		got, err := GetOrLoad(ctx, aside, aside.Keys().Entity("student", 7), load)
		require.NoError(t, err)
		assert.Equal(t, record{ID: 7, Name: "Ada"}, got)
		assert.Equal(t, 1, loads)

		// Second read is served from cache.
		got, err = GetOrLoad(ctx, aside, aside.Keys().Entity("student", 7), load)
		require.NoError(t, err)
		assert.Equal(t, record{ID: 7, Name: "Ada"}, got)
		assert.Equal(t, 1, loads)
	})

	t.Run("expired entry reloads", func(t *testing.T) {
		store := NewMemoryStore()
		now := time.Now()
		store.SetClock(func() time.Time { return now })
		aside := NewAside(store, "student-service", time.Minute, zap.NewNop())

		loads := 0
		load := func(ctx context.Context) (record, error) {
			loads++
			return record{ID: 1}, nil
		}

		_, err := GetOrLoad(ctx, aside, "student-service:student:1", load)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, err = GetOrLoad(ctx, aside, "student-service:student:1", load)
		require.NoError(t, err)
		assert.Equal(t, 2, loads)
	})

	t.Run("loader error propagates", func(t *testing.T) {
		aside := NewAside(NewMemoryStore(), "student-service", time.Minute, zap.NewNop())

		boom := errors.New("db down")
		_, err := GetOrLoad(ctx, aside, "k", func(ctx context.Context) (record, error) {
			return record{}, boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("cache failure degrades to loader", func(t *testing.T) {
		store := &flakyStore{MemoryStore: NewMemoryStore(), failGet: true, failSet: true}
		aside := NewAside(store, "student-service", time.Minute, zap.NewNop())

		loads := 0
		got, err := GetOrLoad(ctx, aside, "k", func(ctx context.Context) (record, error) {
			loads++
			return record{ID: 3}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.ID)
		assert.Equal(t, 1, loads)
	})

	t.Run("corrupt entry dropped and reloaded", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(ctx, "k", []byte("{not json"), time.Minute))
		aside := NewAside(store, "student-service", time.Minute, zap.NewNop())

		got, err := GetOrLoad(ctx, aside, "k", func(ctx context.Context) (record, error) {
			return record{ID: 9}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(9), got.ID)
	})
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("removes entity and collection keys", func(t *testing.T) {
		store := NewMemoryStore()
		aside := NewAside(store, "student-service", time.Minute, zap.NewNop())
		keys := aside.Keys()

		require.NoError(t, store.Set(ctx, keys.Entity("student", 1), []byte("{}"), 0))
		require.NoError(t, store.Set(ctx, keys.All("student"), []byte("[]"), 0))

		aside.Invalidate(ctx, keys.Entity("student", 1), keys.All("student"))
		assert.Equal(t, 0, store.Len())
	})

	t.Run("delete failure is swallowed", func(t *testing.T) {
		store := &flakyStore{MemoryStore: NewMemoryStore(), failDelete: true}
		aside := NewAside(store, "student-service", time.Minute, zap.NewNop())
		aside.Invalidate(ctx, "k")
	})
}

func TestKeys(t *testing.T) {
	k := NewKeys("course-service")
	assert.Equal(t, "course-service:course:42", k.Entity("course", 42))
	assert.Equal(t, "course-service:course:all", k.All("course"))
}
