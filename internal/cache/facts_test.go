package cache_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/cache"
	"docverify/internal/domain"
)

func TestFactsCache_SetGetInvalidate(t *testing.T) {
	c := cache.NewFactsCache(time.Minute, time.Minute)
	id := uuid.New()

	_, ok := c.Get(id)
	assert.False(t, ok)

	c.Set(&domain.DocumentFacts{DocumentID: id, Source: domain.SourceRule})
	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, domain.SourceRule, got.Source)
	assert.Equal(t, 1, c.Len())

	c.Invalidate(id)
	_, ok = c.Get(id)
	assert.False(t, ok)
}

func TestFactsCache_Expiry(t *testing.T) {
	c := cache.NewFactsCache(20*time.Millisecond, time.Hour)
	id := uuid.New()
	c.Set(&domain.DocumentFacts{DocumentID: id})

	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get(id)
	assert.False(t, ok)
}

func TestFactsCache_NoExpiration(t *testing.T) {
	c := cache.NewFactsCache(0, time.Hour)
	id := uuid.New()
	c.Set(&domain.DocumentFacts{DocumentID: id})

	_, ok := c.Get(id)
	assert.True(t, ok)
}
