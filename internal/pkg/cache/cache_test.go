package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration

	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	b, ok := s.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return b, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *memStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
		delete(s.ttls, k)
	}
	return nil
}

func (s *memStore) DelPrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
			delete(s.ttls, k)
		}
	}
	return nil
}

type pageValue struct {
	IDs   []string `json:"ids"`
	Total int64    `json:"total"`
}

func TestGetOrLoadMissThenHit(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store, 0)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (pageValue, error) {
		calls++
		return pageValue{IDs: []string{"a", "b"}, Total: 2}, nil
	}

	got, err := GetOrLoad(ctx, c, PostsContent, "1:10", loader)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.IDs)
	assert.Equal(t, 1, calls)

	// 第二次命中缓存，不再回源
	got, err = GetOrLoad(ctx, c, PostsContent, "1:10", loader)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Total)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadAppliesNamespaceTTL(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store, 0)

	_, err := GetOrLoad(context.Background(), c, PostsCount, "all", func(ctx context.Context) (int64, error) {
		return 42, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, store.ttls["postsCount:all"])
}

func TestGetOrLoadLoaderError(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store, 0)

	wantErr := errors.New("db gone")
	_, err := GetOrLoad(context.Background(), c, SinglePost, "p1", func(ctx context.Context) (pageValue, error) {
		return pageValue{}, wantErr
	})
	require.ErrorIs(t, err, wantErr)
	assert.Empty(t, store.data)
}

func TestGetOrLoadStoreFailureFallsThrough(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	c := NewCoordinator(store, 0)

	got, err := GetOrLoad(context.Background(), c, PostsCount, "all", func(ctx context.Context) (int64, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
}

func TestGetOrLoadCorruptEntryReloads(t *testing.T) {
	store := newMemStore()
	store.data["singlePost:p1"] = []byte("{not json")
	c := NewCoordinator(store, 0)

	got, err := GetOrLoad(context.Background(), c, SinglePost, "p1", func(ctx context.Context) (pageValue, error) {
		return pageValue{Total: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Total)
	// 损坏的条目被新值覆盖
	assert.NotEqual(t, []byte("{not json"), store.data["singlePost:p1"])
}

func TestGetOrLoadLoaderTimeout(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store, 10*time.Millisecond)

	_, err := GetOrLoad(context.Background(), c, PostsContent, "1:10", func(ctx context.Context) (pageValue, error) {
		select {
		case <-ctx.Done():
			return pageValue{}, ctx.Err()
		case <-time.After(time.Second):
			return pageValue{}, nil
		}
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEvictAndEvictAll(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store, 0)
	ctx := context.Background()

	store.data["postsContent:1:10"] = []byte(`{}`)
	store.data["postsContent:2:10"] = []byte(`{}`)
	store.data["postsCount:all"] = []byte(`1`)

	c.Evict(ctx, PostsCount, "all")
	assert.NotContains(t, store.data, "postsCount:all")

	c.EvictAll(ctx, PostsContent)
	assert.Empty(t, store.data)
}
