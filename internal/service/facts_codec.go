package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"docverify/internal/cache"
	"docverify/internal/domain"
	"docverify/internal/metrics"
	"docverify/internal/port"
)

// decodedFacts is the typed view of a stored DocumentFacts row.
type decodedFacts struct {
	Canonical   domain.CanonicalDocumentData
	Entities    []domain.Entity
	NEREntities []domain.Entity
	Relations   []domain.Relation
	Merged      *domain.MergedData
}

// hasRecognizerData reports whether the facts were extracted with recognizer entities.
func (d *decodedFacts) hasRecognizerData() bool {
	return len(d.NEREntities) > 0
}

// hybridData assembles what the hybrid validator compares against.
func (d *decodedFacts) hybridData() domain.HybridData {
	facts := d.Canonical.Facts()
	return domain.HybridData{
		Deadlines:   facts.Deadlines,
		Obligations: facts.Obligations,
		Penalties:   facts.Penalties,
		NEREntities: d.NEREntities,
		Relations:   d.Relations,
		Merged:      d.Merged,
	}
}

func decodeFacts(f *domain.DocumentFacts) (*decodedFacts, error) {
	out := &decodedFacts{}
	if err := json.Unmarshal(f.Canonical, &out.Canonical); err != nil {
		return nil, fmt.Errorf("%w: canonical: %v", domain.ErrCorruptFacts, err)
	}
	parts := []struct {
		name string
		raw  json.RawMessage
		dst  interface{}
	}{
		{"entities", f.Entities, &out.Entities},
		{"ner_entities", f.NEREntities, &out.NEREntities},
		{"relations", f.Relations, &out.Relations},
		{"merged", f.Merged, &out.Merged},
	}
	for _, p := range parts {
		if len(p.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(p.raw, p.dst); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptFacts, p.name, err)
		}
	}
	return out, nil
}

// factsLoader reads stored facts through the in-memory cache.
type factsLoader struct {
	repo  port.FactsRepository
	cache *cache.FactsCache
}

func (l *factsLoader) load(ctx context.Context, documentID uuid.UUID) (*domain.DocumentFacts, error) {
	if l.cache != nil {
		if facts, ok := l.cache.Get(documentID); ok {
			metrics.CacheLookup(true)
			return facts, nil
		}
		metrics.CacheLookup(false)
	}
	facts, err := l.repo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		l.cache.Set(facts)
	}
	return facts, nil
}

func (l *factsLoader) store(facts *domain.DocumentFacts) {
	if l.cache != nil {
		l.cache.Set(facts)
	}
}

func (l *factsLoader) forget(documentID uuid.UUID) {
	if l.cache != nil {
		l.cache.Invalidate(documentID)
	}
}
