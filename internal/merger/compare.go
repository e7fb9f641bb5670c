package merger

import (
	"strings"

	"docverify/internal/domain"
)

// Field names used in Difference.Field.
const (
	FieldDeadlines   = "deadlines"
	FieldPenalties   = "penalties"
	FieldObligations = "obligations"
)

// Difference is one fact present on only one side of a comparison.
// Missing facts are in the reference but not the other side; added facts the reverse.
type Difference struct {
	Kind  domain.IssueKind
	Field string
	Value string
	Type  string
}

// Compare diffs the deadlines, known-amount penalties and obligations of two merged
// results. reference is the trusted side.
func Compare(reference, other domain.MergedData) []Difference {
	var diffs []Difference

	refDates := make(map[string]string, len(reference.Deadlines))
	for _, d := range reference.Deadlines {
		refDates[d.Date] = d.Type
	}
	otherDates := make(map[string]string, len(other.Deadlines))
	for _, d := range other.Deadlines {
		otherDates[d.Date] = d.Type
	}
	for _, d := range reference.Deadlines {
		if _, ok := otherDates[d.Date]; !ok {
			diffs = append(diffs, Difference{Kind: domain.IssueMissing, Field: FieldDeadlines, Value: d.Date, Type: d.Type})
		}
	}
	for _, d := range other.Deadlines {
		if _, ok := refDates[d.Date]; !ok {
			diffs = append(diffs, Difference{Kind: domain.IssueAdded, Field: FieldDeadlines, Value: d.Date, Type: d.Type})
		}
	}

	refAmounts := knownAmounts(reference.Penalties)
	otherAmounts := knownAmounts(other.Penalties)
	for _, p := range reference.Penalties {
		if p.HasKnownAmount() && !otherAmounts[p.Amount] {
			diffs = append(diffs, Difference{Kind: domain.IssueMissing, Field: FieldPenalties, Value: p.Amount, Type: p.Type})
		}
	}
	for _, p := range other.Penalties {
		if p.HasKnownAmount() && !refAmounts[p.Amount] {
			diffs = append(diffs, Difference{Kind: domain.IssueAdded, Field: FieldPenalties, Value: p.Amount, Type: p.Type})
		}
	}

	for _, o := range reference.Obligations {
		if !containsObligation(other.Obligations, o.Description) {
			diffs = append(diffs, Difference{Kind: domain.IssueMissing, Field: FieldObligations, Value: o.Description})
		}
	}
	for _, o := range other.Obligations {
		if !containsObligation(reference.Obligations, o.Description) {
			diffs = append(diffs, Difference{Kind: domain.IssueAdded, Field: FieldObligations, Value: o.Description})
		}
	}
	return diffs
}

func knownAmounts(penalties []domain.Penalty) map[string]bool {
	out := make(map[string]bool, len(penalties))
	for _, p := range penalties {
		if p.HasKnownAmount() {
			out[p.Amount] = true
		}
	}
	return out
}

// containsObligation matches on whitespace-insensitive containment in either direction.
func containsObligation(list []domain.Obligation, description string) bool {
	key := squash(description)
	for _, o := range list {
		other := squash(o.Description)
		if strings.Contains(other, key) || strings.Contains(key, other) {
			return true
		}
	}
	return false
}

func squash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
