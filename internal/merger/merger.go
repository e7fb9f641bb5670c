// Package merger combines rule-extracted facts with recognizer entities into one
// start-ordered entity list in which no two entities share a label and an overlapping span.
package merger

import (
	"sort"
	"strings"
	"unicode/utf8"

	"docverify/internal/domain"
	"docverify/internal/extractor"
)

// Config holds the merge tunables.
type Config struct {
	SpanStrategy         domain.SpanStrategy
	DefaultNERConfidence float64
	DeadlineConfidence   float64
	MoneyConfidence      float64
	AccountConfidence    float64
}

// DefaultConfig returns the standard merge settings.
func DefaultConfig() Config {
	return Config{
		SpanStrategy:         domain.SpanStrategyValueSearch,
		DefaultNERConfidence: 0.75,
		DeadlineConfidence:   0.85,
		MoneyConfidence:      0.8,
		AccountConfidence:    0.9,
	}
}

// Merger deduplicates and arbitrates rule and recognizer entities.
type Merger struct {
	cfg Config
	ex  *extractor.Extractor
}

// New creates a Merger. A nil extractor uses the default one.
func New(cfg Config, ex *extractor.Extractor) *Merger {
	if ex == nil {
		ex = extractor.New()
	}
	if cfg.SpanStrategy == "" {
		cfg.SpanStrategy = domain.SpanStrategyValueSearch
	}
	return &Merger{cfg: cfg, ex: ex}
}

// Merge re-runs rule extraction on text, converts its hits to entities and merges
// them with the recognizer entities. Recognizer entities with an unknown label or a
// span outside the text are ignored.
func (m *Merger) Merge(nerEntities []domain.Entity, text string) domain.MergedData {
	facts := m.ex.Extract(text)
	entities := m.ruleEntities(text)

	textLen := utf8.RuneCountInString(text)
	for _, e := range nerEntities {
		if !domain.ValidLabels[e.Label] || e.Start < 0 || e.End <= e.Start || e.End > textLen {
			continue
		}
		if e.Confidence <= 0 {
			e.Confidence = m.cfg.DefaultNERConfidence
		}
		e.Sources = e.Sources.Union(domain.NewSources(domain.SourceNER))
		entities = append(entities, e)
	}

	return domain.MergedData{
		Entities:       MergeEntities(entities),
		Deadlines:      facts.Deadlines,
		Obligations:    facts.Obligations,
		Penalties:      facts.Penalties,
		AccountNumbers: facts.AccountNumbers,
	}
}

// MergeEntities runs the overlap sweep over an arbitrary entity list. Entities are
// visited by start offset, then end offset, recognizer entities first. A candidate that
// overlaps several placed entities is placed only if it wins against all of them.
func MergeEntities(entities []domain.Entity) []domain.Entity {
	ordered := make([]domain.Entity, len(entities))
	copy(ordered, entities)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.FromNER() && !b.FromNER()
	})

	placed := make([]domain.Entity, 0, len(ordered))
	for _, candidate := range ordered {
		var overlapping []int
		for i, existing := range placed {
			if existing.Label == candidate.Label && existing.Overlaps(candidate) {
				overlapping = append(overlapping, i)
			}
		}
		if len(overlapping) == 0 {
			placed = append(placed, candidate)
			continue
		}

		outcomes := make([]outcome, len(overlapping))
		winsAll := true
		for k, i := range overlapping {
			outcomes[k] = resolve(placed[i], candidate)
			winsAll = winsAll && outcomes[k].candidateWins
		}

		if winsAll {
			drop := make(map[int]bool, len(overlapping))
			for k, i := range overlapping {
				if outcomes[k].absorb {
					candidate.Sources = candidate.Sources.Union(placed[i].Sources)
				}
				drop[i] = true
			}
			kept := placed[:0:0]
			for i, e := range placed {
				if !drop[i] {
					kept = append(kept, e)
				}
			}
			placed = append(kept, candidate)
			continue
		}

		for k, i := range overlapping {
			if !outcomes[k].candidateWins && outcomes[k].absorb {
				placed[i].Sources = placed[i].Sources.Union(candidate.Sources)
			}
		}
	}

	domain.SortEntities(placed)
	return placed
}

// ruleEntities turns deadline, known-amount penalty and account hits into entities.
func (m *Merger) ruleEntities(text string) []domain.Entity {
	rule := domain.NewSources(domain.SourceRule)
	var out []domain.Entity

	for _, h := range m.ex.DeadlineHits(text) {
		out = append(out, m.locate(text, h.Date, h.Literal, h.Start, h.End, domain.LabelDeadline, m.cfg.DeadlineConfidence, rule))
	}
	for _, h := range m.ex.PenaltyHits(text) {
		if !h.HasKnownAmount() {
			continue
		}
		out = append(out, m.locate(text, h.Amount, h.AmountText, h.AmountStart, h.AmountEnd, domain.LabelMoney, m.cfg.MoneyConfidence, rule))
	}
	for _, h := range m.ex.AccountHits(text) {
		out = append(out, m.locate(text, h.Number, h.Number, h.Start, h.End, domain.LabelAccountNumber, m.cfg.AccountConfidence, rule))
	}
	return out
}

// locate builds the span of a rule fact according to the configured strategy.
func (m *Merger) locate(text, value, literal string, start, end int, label domain.EntityLabel, conf float64, src domain.Sources) domain.Entity {
	e := domain.Entity{Label: label, Confidence: conf, Sources: src}
	if m.cfg.SpanStrategy == domain.SpanStrategyMatchOffset && start >= 0 {
		e.Text, e.Start, e.End = literal, start, end
		return e
	}
	e.Text = value
	e.Start, e.End = FindSpan(text, value)
	return e
}

// FindSpan returns the rune span of the first occurrence of value in text, or
// [0, len(value)) when value does not occur.
func FindSpan(text, value string) (int, int) {
	n := utf8.RuneCountInString(value)
	i := strings.Index(text, value)
	if i < 0 || value == "" {
		return 0, n
	}
	start := utf8.RuneCountInString(text[:i])
	return start, start + n
}
