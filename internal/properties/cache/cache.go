package cache

import (
	"context"
	"errors"
	"time"

	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/bradfitz/gomemcache/memcache"
	jsoniter "github.com/json-iterator/go"
	"github.com/karlseguin/ccache/v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyPrefix = "property:"

// RemoteStore is the subset of *memcache.Client the cache uses.
type RemoteStore interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
}

// PropertyCache is a two-level read cache: a per-process LRU in front of an
// optional shared memcached. Values are snapshots for read endpoints only;
// the booking engine always reads the store directly.
type PropertyCache struct {
	local  *ccache.Cache[*model.Property]
	remote RemoteStore
	ttl    time.Duration
	log    *logger.Logger
}

// New builds a cache. remote may be nil.
func New(maxSize int64, ttl time.Duration, remote RemoteStore, log *logger.Logger) *PropertyCache {
	return &PropertyCache{
		local:  ccache.New(ccache.Configure[*model.Property]().MaxSize(maxSize)),
		remote: remote,
		ttl:    ttl,
		log:    log,
	}
}

func (c *PropertyCache) Get(id string) (*model.Property, bool) {
	key := keyPrefix + id

	if item := c.local.Get(key); item != nil && !item.Expired() {
		return item.Value(), true
	}

	if c.remote == nil {
		return nil, false
	}

	item, err := c.remote.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			c.log.Warn("Property cache remote get failed", "property_id", id, "error", err)
		}
		return nil, false
	}

	var property model.Property
	if err := json.Unmarshal(item.Value, &property); err != nil {
		c.log.Warn("Property cache entry undecodable, dropping", "property_id", id, "error", err)
		_ = c.remote.Delete(key)
		return nil, false
	}

	c.local.Set(key, &property, c.ttl)
	return &property, true
}

func (c *PropertyCache) Set(property *model.Property) {
	key := keyPrefix + property.ID
	c.local.Set(key, property, c.ttl)

	if c.remote == nil {
		return
	}

	data, err := json.Marshal(property)
	if err != nil {
		c.log.Warn("Property cache encode failed", "property_id", property.ID, "error", err)
		return
	}
	if err := c.remote.Set(&memcache.Item{Key: key, Value: data, Expiration: int32(c.ttl.Seconds())}); err != nil {
		c.log.Warn("Property cache remote set failed", "property_id", property.ID, "error", err)
	}
}

func (c *PropertyCache) Invalidate(id string) {
	key := keyPrefix + id
	c.local.Delete(key)

	if c.remote == nil {
		return
	}
	if err := c.remote.Delete(key); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		c.log.Warn("Property cache remote delete failed", "property_id", id, "error", err)
	}
}

func (c *PropertyCache) Stop() {
	c.local.Stop()
}

// Finder is the read side of the property store.
type Finder interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

// ReadThrough serves property reads from the cache and fills it on a miss.
type ReadThrough struct {
	store Finder
	cache *PropertyCache
}

func NewReadThrough(store Finder, cache *PropertyCache) *ReadThrough {
	return &ReadThrough{store: store, cache: cache}
}

func (r *ReadThrough) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if property, ok := r.cache.Get(id); ok {
		return property, nil
	}

	property, err := r.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(property)
	return property, nil
}
