// Package cache keeps recently used document facts in memory.
package cache

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"docverify/internal/domain"
)

// FactsCache is an expiring in-memory cache of stored document facts.
type FactsCache struct {
	cache *gocache.Cache
}

// NewFactsCache creates a cache. A zero TTL keeps entries until they are invalidated.
func NewFactsCache(ttl, cleanupInterval time.Duration) *FactsCache {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &FactsCache{cache: gocache.New(ttl, cleanupInterval)}
}

// Get returns the cached facts for a document.
func (c *FactsCache) Get(documentID uuid.UUID) (*domain.DocumentFacts, bool) {
	val, found := c.cache.Get(documentID.String())
	if !found {
		return nil, false
	}
	facts, ok := val.(*domain.DocumentFacts)
	return facts, ok
}

// Set stores facts with the default TTL.
func (c *FactsCache) Set(facts *domain.DocumentFacts) {
	c.cache.SetDefault(facts.DocumentID.String(), facts)
}

// Invalidate drops a document's entry.
func (c *FactsCache) Invalidate(documentID uuid.UUID) {
	c.cache.Delete(documentID.String())
}

// Len returns the number of entries, including expired ones not yet cleaned up.
func (c *FactsCache) Len() int {
	return c.cache.ItemCount()
}
