package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	propertyerrors "stayhub/internal/properties/errors"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	mu    sync.Mutex
	items map[string]*memcache.Item
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{items: map[string]*memcache.Item{}}
}

func (f *fakeRemote) Get(key string) (*memcache.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	return item, nil
}

func (f *fakeRemote) Set(item *memcache.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[item.Key] = item
	return nil
}

func (f *fakeRemote) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[key]; !ok {
		return memcache.ErrCacheMiss
	}
	delete(f.items, key)
	return nil
}

type countingFinder struct {
	calls    int
	property *model.Property
}

func (f *countingFinder) FindByID(_ context.Context, id string) (*model.Property, error) {
	f.calls++
	if f.property == nil || f.property.ID != id {
		return nil, propertyerrors.ErrNotFound
	}
	cp := *f.property
	return &cp, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Service: "test"})
}

func TestReadThrough_CachesAfterFirstRead(t *testing.T) {
	c := New(100, time.Minute, nil, testLogger())
	defer c.Stop()
	finder := &countingFinder{property: &model.Property{ID: "p1", Title: "Loft", AverageRating: 4.5, ReviewCount: 2}}
	rt := NewReadThrough(finder, c)

	first, err := rt.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	second, err := rt.FindByID(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, 1, finder.calls)
	assert.Equal(t, first.Title, second.Title)
}

func TestReadThrough_InvalidateForcesReload(t *testing.T) {
	c := New(100, time.Minute, nil, testLogger())
	defer c.Stop()
	finder := &countingFinder{property: &model.Property{ID: "p1"}}
	rt := NewReadThrough(finder, c)

	_, _ = rt.FindByID(context.Background(), "p1")
	c.Invalidate("p1")
	_, _ = rt.FindByID(context.Background(), "p1")

	assert.Equal(t, 2, finder.calls)
}

func TestReadThrough_DoesNotCacheErrors(t *testing.T) {
	c := New(100, time.Minute, nil, testLogger())
	defer c.Stop()
	finder := &countingFinder{}
	rt := NewReadThrough(finder, c)

	_, err := rt.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, propertyerrors.ErrNotFound)
	_, err = rt.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, propertyerrors.ErrNotFound)
	assert.Equal(t, 2, finder.calls)
}

func TestPropertyCache_RemoteBackfillsLocal(t *testing.T) {
	remote := newFakeRemote()
	writer := New(100, time.Minute, remote, testLogger())
	defer writer.Stop()
	writer.Set(&model.Property{ID: "p1", Title: "Cabin", ReviewCount: 3})

	// A second process shares memcached but not the LRU.
	reader := New(100, time.Minute, remote, testLogger())
	defer reader.Stop()

	got, ok := reader.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "Cabin", got.Title)
	assert.Equal(t, 3, got.ReviewCount)

	reader.Invalidate("p1")
	_, err := remote.Get(keyPrefix + "p1")
	assert.ErrorIs(t, err, memcache.ErrCacheMiss)
}

func TestPropertyCache_DropsCorruptRemoteEntries(t *testing.T) {
	remote := newFakeRemote()
	_ = remote.Set(&memcache.Item{Key: keyPrefix + "p1", Value: []byte("{not json")})
	c := New(100, time.Minute, remote, testLogger())
	defer c.Stop()

	_, ok := c.Get("p1")
	assert.False(t, ok)
	_, err := remote.Get(keyPrefix + "p1")
	assert.ErrorIs(t, err, memcache.ErrCacheMiss)
}
