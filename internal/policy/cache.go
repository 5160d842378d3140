package policy

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedRetriever wraps a Retriever with a TTL cache. Retrieval is
// idempotent and read-only, so caching only trades freshness of a
// re-ingested corpus against repeat query cost.
type CachedRetriever struct {
	inner Retriever
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCachedRetriever creates a caching wrapper around a retriever
func NewCachedRetriever(inner Retriever, ttl, cleanupInterval time.Duration) *CachedRetriever {
	return &CachedRetriever{
		inner: inner,
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Retrieve serves from cache when possible, falling through to the inner
// retriever on miss. Failed lookups are never cached.
func (r *CachedRetriever) Retrieve(ctx context.Context, query string) ([]Passage, error) {
	key := strings.ToLower(strings.TrimSpace(query))

	if raw, found := r.cache.Get(key); found {
		var passages []Passage
		if err := json.Unmarshal(raw.([]byte), &passages); err == nil {
			return passages, nil
		}
	}

	passages, err := r.inner.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(passages); err == nil {
		r.cache.Set(key, raw, r.ttl)
	}

	return passages, nil
}
