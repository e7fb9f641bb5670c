// Package canonical turns merge output into the versioned ground-truth record stored per document.
package canonical

import (
	"time"

	"github.com/google/uuid"

	"docverify/internal/domain"
	"docverify/internal/extractor"
)

// Builder assembles CanonicalDocumentData.
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a Builder. A nil clock uses time.Now.
func NewBuilder(now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{now: now}
}

// Build wraps the rule facts as verified records and derives amounts and accounts from
// the merged entities. documentID may be nil.
func (b *Builder) Build(merged domain.MergedData, documentID *uuid.UUID) domain.CanonicalDocumentData {
	rule := domain.NewSources(domain.SourceRule)
	out := domain.CanonicalDocumentData{
		Version:         domain.CanonicalSchemaVersion,
		DocumentID:      documentID,
		Deadlines:       make([]domain.VerifiedDeadline, 0, len(merged.Deadlines)),
		RequiredActions: make([]domain.VerifiedAction, 0, len(merged.Obligations)),
		Penalties:       make([]domain.VerifiedPenalty, 0, len(merged.Penalties)),
		Amounts:         []domain.VerifiedAmount{},
		AccountNumbers:  []domain.VerifiedAccount{},
		Verified:        true,
		Source:          sourceOf(merged.Entities),
		CreatedAt:       b.now().UTC(),
	}

	for _, d := range merged.Deadlines {
		out.Deadlines = append(out.Deadlines, domain.VerifiedDeadline{Deadline: d, Verified: true, Sources: rule})
	}
	for _, o := range merged.Obligations {
		out.RequiredActions = append(out.RequiredActions, domain.VerifiedAction{Obligation: o, Verified: true, Sources: rule})
	}
	for _, p := range merged.Penalties {
		out.Penalties = append(out.Penalties, domain.VerifiedPenalty{Penalty: p, Verified: true, Sources: rule})
	}

	for _, e := range merged.Entities {
		verified := e.Sources.Has(domain.SourceRule)
		switch e.Label {
		case domain.LabelMoney:
			out.Amounts = append(out.Amounts, domain.VerifiedAmount{
				Value:    extractor.NormalizeAmount(e.Text),
				Text:     e.Text,
				Currency: domain.CurrencyKRW,
				Verified: verified,
				Sources:  e.Sources,
			})
		case domain.LabelAccountNumber:
			out.AccountNumbers = append(out.AccountNumbers, domain.VerifiedAccount{
				Number:   e.Text,
				Text:     e.Text,
				Verified: verified,
				Sources:  e.Sources,
			})
		default:
			continue
		}
		out.Verified = out.Verified && verified
	}
	return out
}

// sourceOf reports hybrid when any entity carries both rule and recognizer provenance,
// ner when there are entities and none of them came from the rule extractor, else rule.
func sourceOf(entities []domain.Entity) domain.Source {
	anyRule := false
	for _, e := range entities {
		rule := e.Sources.Has(domain.SourceRule)
		if rule && e.Sources.Has(domain.SourceNER) {
			return domain.SourceHybrid
		}
		anyRule = anyRule || rule
	}
	if len(entities) > 0 && !anyRule {
		return domain.SourceNER
	}
	return domain.SourceRule
}
