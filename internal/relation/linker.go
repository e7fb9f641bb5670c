// Package relation infers typed links between merged entities from span distance and
// connector keywords found between them.
package relation

import (
	"strings"
	"unicode/utf8"

	"docverify/internal/domain"
)

// Linker extracts relations. It holds no mutable state.
type Linker struct {
	cfg Config
}

// New creates a Linker. A zero Config falls back to DefaultConfig.
func New(cfg Config) *Linker {
	if len(cfg.Rules) == 0 && len(cfg.Requirement.Keywords) == 0 {
		cfg = DefaultConfig()
	}
	return &Linker{cfg: cfg}
}

type relationKey struct {
	typ         domain.RelationType
	src, target [2]int
}

// ExtractRelations links entities of text. Entities are expected in start order, as
// returned by the merger; relations come back grouped by rule in entity order.
func (l *Linker) ExtractRelations(text string, entities []domain.Entity) []domain.Relation {
	runes := []rune(text)
	seen := make(map[relationKey]bool)
	out := []domain.Relation{}

	add := func(r domain.Relation) {
		k := relationKey{r.Type, [2]int{r.Source.Start, r.Source.End}, [2]int{r.Target.Start, r.Target.End}}
		if seen[k] {
			return
		}
		seen[k] = true
		r.Context = l.context(runes, r.Source, r.Target)
		out = append(out, r)
	}

	for _, rule := range l.cfg.Rules {
		for i, src := range entities {
			if !hasLabel(rule.SourceLabels, src.Label) {
				continue
			}
			if len(rule.RequireBefore) > 0 &&
				!containsAny(slice(runes, src.Start-rule.RequireBeforeWindow, src.Start), rule.RequireBefore) {
				continue
			}
			for j, target := range entities {
				if i == j || !hasLabel(rule.TargetLabels, target.Label) {
					continue
				}
				if Gap(src, target) > rule.MaxGap {
					continue
				}
				between := Between(runes, src, target)
				if containsAny(between, rule.ExcludeBetween) {
					continue
				}
				conf := rule.DistanceConfidence
				if containsAny(between, rule.Keywords) {
					conf = rule.KeywordConfidence
				}
				add(domain.Relation{Type: rule.Type, Source: src, Target: target, Confidence: conf})
			}
		}
	}

	for _, action := range entities {
		if action.Label != domain.LabelAction {
			continue
		}
		if r, ok := l.requirement(runes, action); ok {
			add(r)
		}
	}
	return out
}

// requirement links an action to the nearest requirement keyword after it, or failing
// that the nearest one before it.
func (l *Linker) requirement(runes []rune, action domain.Entity) (domain.Relation, bool) {
	rr := l.cfg.Requirement

	after := slice(runes, action.End, action.End+rr.Window)
	if kw, idx := firstKeyword(after, rr.Keywords); idx >= 0 {
		start := action.End + idx
		return domain.Relation{
			Type:       domain.RelationActionRequired,
			Source:     action,
			Target:     virtualTarget(kw, start),
			Confidence: rr.AfterConfidence,
		}, true
	}

	from := max(action.Start-rr.Window, 0)
	before := slice(runes, from, action.Start)
	if kw, idx := lastKeyword(before, rr.Keywords); idx >= 0 {
		return domain.Relation{
			Type:       domain.RelationActionRequired,
			Source:     action,
			Target:     virtualTarget(kw, from+idx),
			Confidence: rr.BeforeConfidence,
		}, true
	}
	return domain.Relation{}, false
}

func virtualTarget(keyword string, start int) domain.Entity {
	return domain.Entity{
		Text:       keyword,
		Label:      domain.LabelRequirement,
		Start:      start,
		End:        start + utf8.RuneCountInString(keyword),
		Confidence: 1,
		Sources:    domain.NewSources(domain.SourceRule),
	}
}

func (l *Linker) context(runes []rune, a, b domain.Entity) string {
	start, end := min(a.Start, b.Start), max(a.End, b.End)
	return strings.Join(strings.Fields(slice(runes, start-l.cfg.ContextRadius, end+l.cfg.ContextRadius)), " ")
}

// Gap returns the number of runes strictly between two spans, 0 when they overlap or touch.
func Gap(a, b domain.Entity) int {
	switch {
	case a.End <= b.Start:
		return b.Start - a.End
	case b.End <= a.Start:
		return a.Start - b.End
	default:
		return 0
	}
}

// Between returns the text strictly between two spans.
func Between(runes []rune, a, b domain.Entity) string {
	if a.End <= b.Start {
		return slice(runes, a.End, b.Start)
	}
	if b.End <= a.Start {
		return slice(runes, b.End, a.Start)
	}
	return ""
}

func slice(runes []rune, start, end int) string {
	start = max(start, 0)
	end = min(end, len(runes))
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}

func hasLabel(labels []domain.EntityLabel, l domain.EntityLabel) bool {
	for _, v := range labels {
		if v == l {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// firstKeyword returns the earliest keyword occurrence in s as a rune index.
func firstKeyword(s string, keywords []string) (string, int) {
	best, bestIdx := "", -1
	for _, kw := range keywords {
		if i := strings.Index(s, kw); i >= 0 && (bestIdx < 0 || i < bestIdx) {
			best, bestIdx = kw, i
		}
	}
	if bestIdx < 0 {
		return "", -1
	}
	return best, utf8.RuneCountInString(s[:bestIdx])
}

// lastKeyword returns the latest keyword occurrence in s as a rune index.
func lastKeyword(s string, keywords []string) (string, int) {
	best, bestIdx := "", -1
	for _, kw := range keywords {
		if i := strings.LastIndex(s, kw); i > bestIdx {
			best, bestIdx = kw, i
		}
	}
	if bestIdx < 0 {
		return "", -1
	}
	return best, utf8.RuneCountInString(s[:bestIdx])
}
