package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TwoTier is the Store implementation used in production: a process-local
// go-cache instance absorbs repeat reads within a single TTL window,
// falling through to the persistent tier on miss.
type TwoTier struct {
	hot        *gocache.Cache
	persistent Store
}

// NewTwoTier wraps persistent with an in-process hot tier. cleanupInterval
// controls how often go-cache sweeps expired entries.
func NewTwoTier(persistent Store, cleanupInterval time.Duration) *TwoTier {
	return &TwoTier{
		hot:        gocache.New(gocache.NoExpiration, cleanupInterval),
		persistent: persistent,
	}
}

func (t *TwoTier) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	if v, found := t.hot.Get(key); found {
		return v.(json.RawMessage), true
	}
	value, ok := t.persistent.Get(ctx, key)
	if !ok {
		return nil, false
	}
	t.hot.Set(key, value, gocache.DefaultExpiration)
	return value, true
}

func (t *TwoTier) Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) bool {
	ok := t.persistent.Set(ctx, key, value, ttl)
	if ok {
		t.hot.Set(key, value, ttl)
	}
	return ok
}

func (t *TwoTier) Delete(ctx context.Context, key string) bool {
	t.hot.Delete(key)
	return t.persistent.Delete(ctx, key)
}

func (t *TwoTier) BatchGet(ctx context.Context, keys []string) map[string]json.RawMessage {
	results := make(map[string]json.RawMessage, len(keys))
	misses := make([]string, 0, len(keys))

	for _, k := range keys {
		if v, found := t.hot.Get(k); found {
			results[k] = v.(json.RawMessage)
			continue
		}
		misses = append(misses, k)
	}
	if len(misses) == 0 {
		return results
	}

	fetched := t.persistent.BatchGet(ctx, misses)
	for k, v := range fetched {
		results[k] = v
		t.hot.Set(k, v, gocache.DefaultExpiration)
	}
	return results
}

func (t *TwoTier) BatchSet(ctx context.Context, items map[string]json.RawMessage, ttl time.Duration) map[string]bool {
	results := t.persistent.BatchSet(ctx, items, ttl)
	for k, ok := range results {
		if ok {
			t.hot.Set(k, items[k], ttl)
		}
	}
	return results
}
