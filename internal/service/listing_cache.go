package service

import (
	"encoding/json"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/devanshshrivastava16/TrustSpace/internal/domain"
	"github.com/devanshshrivastava16/TrustSpace/internal/repository"
)

// ListingCache memoises filtered property searches. Any listing write
// invalidates every entry.
type ListingCache struct {
	cache *ccache.Cache[[]domain.Property]
	ttl   time.Duration
}

// NewListingCache keeps at most maxSize searches for ttl each. A zero ttl
// disables caching.
func NewListingCache(maxSize int64, ttl time.Duration) *ListingCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &ListingCache{
		cache: ccache.New(ccache.Configure[[]domain.Property]().MaxSize(maxSize)),
		ttl:   ttl,
	}
}

// Fetch returns the cached result for filter or loads and stores it.
func (c *ListingCache) Fetch(filter repository.PropertyFilter, load func() ([]domain.Property, error)) ([]domain.Property, error) {
	if c == nil || c.ttl <= 0 {
		return load()
	}
	key, err := cacheKey(filter)
	if err != nil {
		return load()
	}
	item, err := c.cache.Fetch(key, c.ttl, load)
	if err != nil {
		return nil, err
	}
	return item.Value(), nil
}

// Invalidate drops every cached search.
func (c *ListingCache) Invalidate() {
	if c == nil {
		return
	}
	c.cache.Clear()
}

// Stop releases the cache's background worker.
func (c *ListingCache) Stop() {
	if c == nil {
		return
	}
	c.cache.Stop()
}

func cacheKey(filter repository.PropertyFilter) (string, error) {
	raw, err := json.Marshal(filter)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
