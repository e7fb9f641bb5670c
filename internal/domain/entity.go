package domain

import "sort"

// Sources is a sorted, duplicate-free set of fact provenances.
type Sources []Source

// NewSources builds a normalized set from the given values.
func NewSources(values ...Source) Sources {
	return Sources(nil).Union(values)
}

// Has reports whether s contains src.
func (s Sources) Has(src Source) bool {
	for _, v := range s {
		if v == src {
			return true
		}
	}
	return false
}

// Union returns a new set containing the members of both sets.
func (s Sources) Union(other Sources) Sources {
	seen := make(map[Source]bool, len(s)+len(other))
	out := make(Sources, 0, len(s)+len(other))
	for _, set := range []Sources{s, other} {
		for _, v := range set {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RuleOnly reports whether the rule extractor is the sole provenance.
func (s Sources) RuleOnly() bool {
	return len(s) == 1 && s[0] == SourceRule
}

// Entity is a labeled span of the source text. Start and End are half-open rune offsets.
type Entity struct {
	Text       string      `json:"text"`
	Label      EntityLabel `json:"label"`
	Start      int         `json:"start"`
	End        int         `json:"end"`
	Confidence float64     `json:"confidence"`
	Sources    Sources     `json:"sources"`
}

// Len returns the span length in runes.
func (e Entity) Len() int {
	return e.End - e.Start
}

// Overlaps reports whether the two half-open spans intersect.
func (e Entity) Overlaps(other Entity) bool {
	return e.Start < other.End && other.Start < e.End
}

// FromNER reports whether the recognizer contributed this entity.
func (e Entity) FromNER() bool {
	return e.Sources.Has(SourceNER)
}

// Relation links two entities. Relations are derived and recomputed whenever entities change.
type Relation struct {
	Type       RelationType `json:"type"`
	Source     Entity       `json:"source"`
	Target     Entity       `json:"target"`
	Confidence float64      `json:"confidence"`
	Context    string       `json:"context"`
}

// SortEntities orders entities by start offset, then end offset.
func SortEntities(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		return entities[i].End < entities[j].End
	})
}
